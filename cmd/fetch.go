package main

import (
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/choropleth-cli/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download both datasets for offline rendering",
	Long:  "Downloads the counties topology and the education table into a directory. Point data.counties_url and data.education_url at the saved files to render offline.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().String("dir", "data", "destination directory")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "fetch: create dir")
	}

	f := newFetcher()
	sources := []string{cfg.Data.CountiesURL, cfg.Data.EducationURL}
	dests := make([]string, len(sources))
	sizes := make([]int64, len(sources))

	g, gctx := errgroup.WithContext(cmd.Context())
	for i, src := range sources {
		i, src := i, src
		dests[i] = filepath.Join(dir, localName(src, i))
		g.Go(func() error {
			n, err := fetcher.DownloadToFile(gctx, f, src, dests[i])
			if err != nil {
				return eris.Wrapf(err, "fetch: %s", src)
			}
			sizes[i] = n
			zap.L().Info("fetch: saved dataset", zap.String("url", src), zap.String("path", dests[i]), zap.Int64("bytes", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range dests {
		printer.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", dests[i], sizes[i])
	}
	return nil
}

// localName is the file name a source is saved under.
func localName(src string, i int) string {
	p := src
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return []string{"counties.json", "education.json"}[i]
	}
	return name
}
