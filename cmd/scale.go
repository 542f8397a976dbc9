package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/choropleth-cli/internal/dataset"
	"github.com/sells-group/choropleth-cli/internal/pipeline"
	"github.com/sells-group/choropleth-cli/internal/scale"
)

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Print the color scale built from the education dataset",
	Long:  "Loads the education dataset and prints each color step with its rate range, as a table or YAML.",
	RunE:  runScale,
}

func init() {
	scaleCmd.Flags().String("format", "table", "output format: table, yaml")
	rootCmd.AddCommand(scaleCmd)
}

// scaleStep is one color step as printed.
type scaleStep struct {
	Color string   `yaml:"color"`
	From  *float64 `yaml:"from,omitempty"`
	To    *float64 `yaml:"to,omitempty"`
}

// scaleReport is the YAML document printed by the scale command.
type scaleReport struct {
	Min         float64     `yaml:"min"`
	Max         float64     `yaml:"max"`
	Step        float64     `yaml:"step"`
	Degenerate  bool        `yaml:"degenerate"`
	Breakpoints []float64   `yaml:"breakpoints"`
	Steps       []scaleStep `yaml:"steps"`
}

func runScale(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "yaml" {
		return eris.Errorf("scale: unknown format %q", format)
	}

	eduFormat, err := dataset.ParseFormat(cfg.Data.EducationFormat)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(cmd.Context(), newFetcher(), dataset.Sources{
		CountiesURL:     cfg.Data.CountiesURL,
		EducationURL:    cfg.Data.EducationURL,
		EducationFormat: eduFormat,
	})
	if err != nil {
		return err
	}
	s, err := pipeline.BuildScales(cfg, ds.Rates())
	if err != nil {
		return err
	}

	report := newScaleReport(s)
	if format == "yaml" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return eris.Wrap(err, "scale: encode yaml")
		}
		return enc.Close()
	}
	return writeScaleTable(cmd.OutOrStdout(), report)
}

func newScaleReport(s *scale.Scales) scaleReport {
	r := scaleReport{
		Min:         s.Min,
		Max:         s.Max,
		Step:        s.Step,
		Degenerate:  s.Degenerate(),
		Breakpoints: append([]float64(nil), s.Color.Domain...),
	}
	for i, c := range s.Color.Range {
		lo, hi := s.Color.Bucket(i)
		step := scaleStep{Color: c}
		if !math.IsInf(lo, 0) {
			step.From = &lo
		}
		if !math.IsInf(hi, 0) {
			step.To = &hi
		}
		r.Steps = append(r.Steps, step)
	}
	return r
}

func writeScaleTable(w io.Writer, r scaleReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tCOLOR\tFROM\tTO")
	for i, st := range r.Steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, st.Color, bound(st.From), bound(st.To))
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "scale: write table")
	}
	printer.Fprintf(w, "min %.2f, max %.2f, %d steps\n", r.Min, r.Max, len(r.Steps))
	return nil
}

func bound(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *v)
}
