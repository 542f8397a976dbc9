// Package fetcher downloads datasets over HTTP or from local files and decodes
// JSON, CSV, and XLSX payloads.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/rotisserie/eris"
)

// Fetcher defines the interface for retrieving a dataset.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Router sends http and https URLs to HTTP and everything else to Files.
type Router struct {
	HTTP  Fetcher
	Files Fetcher
}

// NewRouter builds a Router over an HTTPFetcher and a FileFetcher.
func NewRouter(opts HTTPOptions) *Router {
	return &Router{HTTP: NewHTTPFetcher(opts), Files: FileFetcher{}}
}

// Download dispatches on the URL scheme.
func (r *Router) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if isRemote(rawURL) {
		return r.HTTP.Download(ctx, rawURL)
	}
	return r.Files.Download(ctx, rawURL)
}

func isRemote(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// DownloadToFile fetches the URL with f and writes it to path. Returns bytes written.
func DownloadToFile(ctx context.Context, f Fetcher, rawURL string, path string) (int64, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}

	return n, nil
}
