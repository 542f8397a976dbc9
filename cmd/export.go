package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/choropleth-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the shaded counties as XLSX, shapefile, or GeoJSON",
	Long:  "Runs the render pipeline and writes one row or feature per county with its FIPS code, rate, fill color, and match status.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "geojson", "output format: xlsx, shp, geojson")
	exportCmd.Flags().StringP("out", "o", "", "output path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	res, err := newPipeline().Run(cmd.Context())
	if err != nil {
		return err
	}
	if err := export.Write(format, out, res.Shades); err != nil {
		return err
	}

	printer.Fprintf(cmd.OutOrStdout(), "Exported %d counties as %s to %s\n", len(res.Shades), format, out)
	return nil
}
