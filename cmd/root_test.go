package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopology = `{
  "type": "Topology",
  "arcs": [
    [[1,0],[1,1]],
    [[1,1],[0,1],[0,0],[1,0]],
    [[1,0],[2,0],[2,1],[1,1]]
  ],
  "objects": {
    "counties": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": 1001, "arcs": [[0, 1]]},
      {"type": "Polygon", "id": 1003, "arcs": [[2, -1]]}
    ]},
    "states": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": "01", "arcs": [[0, 1]]},
      {"type": "Polygon", "id": "02", "arcs": [[2, -1]]}
    ]}
  }
}`

const testEducation = `[
  {"fips": 1001, "state": "AL", "area_name": "Autauga County", "bachelorsOrHigher": 21.9},
  {"fips": 9999, "state": "ZZ", "area_name": "Elsewhere", "bachelorsOrHigher": 50}
]`

// setupData writes both datasets to a temp dir and points the config at them.
func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	counties := filepath.Join(dir, "counties.json")
	education := filepath.Join(dir, "education.json")
	require.NoError(t, os.WriteFile(counties, []byte(testTopology), 0o644))
	require.NoError(t, os.WriteFile(education, []byte(testEducation), 0o644))
	t.Setenv("CHOROPLETH_DATA_COUNTIES_URL", counties)
	t.Setenv("CHOROPLETH_DATA_EDUCATION_URL", education)
	t.Setenv("CHOROPLETH_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"render", "export", "scale", "fetch"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "choropleth-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestRenderCommand_Flags(t *testing.T) {
	flag := renderCmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "map.svg", flag.DefValue)
	assert.NotNil(t, renderCmd.Flags().Lookup("html"))
	assert.NotNil(t, renderCmd.Flags().Lookup("png"))
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "geojson", flag.DefValue)
	require.NotNil(t, exportCmd.Flags().Lookup("out"))
}

func TestRender_WritesSVGAndHTML(t *testing.T) {
	dir := setupData(t)
	svgPath := filepath.Join(dir, "out.svg")
	htmlPath := filepath.Join(dir, "out.html")

	out, err := execute(t, "render", "--out", svgPath, "--html", htmlPath, "--png", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 2 counties (1 matched, 1 without data)")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `data-fips="1001" data-education="21.9"><title>Autauga County, AL: 21.9%</title>`)
	assert.Contains(t, string(svg), `data-fips="1003" data-education="0"><title>No data</title>`)
	assert.Contains(t, string(svg), `class="states"`)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<div id="tooltip"></div>`)
	assert.Contains(t, string(html), `data-fips="1001"`)
}

func TestRender_FetchFailureWritesNothing(t *testing.T) {
	dir := setupData(t)
	t.Setenv("CHOROPLETH_DATA_EDUCATION_URL", filepath.Join(dir, "missing.json"))
	svgPath := filepath.Join(dir, "never.svg")

	_, err := execute(t, "render", "--out", svgPath, "--html", "", "--png", "")
	require.Error(t, err)

	_, statErr := os.Stat(svgPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender_FailedHTMLWriteKeepsSVG(t *testing.T) {
	dir := setupData(t)
	svgPath := filepath.Join(dir, "kept.svg")
	require.NoError(t, os.WriteFile(svgPath, []byte("previous"), 0o644))

	_, err := execute(t, "render", "--out", svgPath, "--html", filepath.Join(dir, "missing", "page.html"), "--png", "")
	require.Error(t, err)

	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestExport_GeoJSON(t *testing.T) {
	dir := setupData(t)
	path := filepath.Join(dir, "counties.geojson")

	out, err := execute(t, "export", "--format", "geojson", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 counties as geojson")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"geoid":"01001"`)
}

func TestExport_UnknownFormat(t *testing.T) {
	dir := setupData(t)
	_, err := execute(t, "export", "--format", "kml", "--out", filepath.Join(dir, "x.kml"))
	require.Error(t, err)
}

func TestScale_Table(t *testing.T) {
	setupData(t)
	out, err := execute(t, "scale", "--format", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header, nine steps, summary.
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "STEP"))
	assert.Contains(t, lines[1], "#f7fbff")
	assert.Contains(t, lines[9], "#08306b")
	assert.Contains(t, lines[10], "min 21.90, max 50.00, 9 steps")
}

func TestScale_YAML(t *testing.T) {
	setupData(t)
	out, err := execute(t, "scale", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "min: 21.9")
	assert.Contains(t, out, "max: 50")
	assert.Contains(t, out, "degenerate: false")
	assert.Contains(t, out, "- color:")
	assert.Contains(t, out, "#f7fbff")
}

func TestScale_UnknownFormat(t *testing.T) {
	setupData(t)
	_, err := execute(t, "scale", "--format", "csv")
	require.Error(t, err)
}

func TestFetch_CopiesLocalSources(t *testing.T) {
	dir := setupData(t)
	dest := filepath.Join(dir, "offline")

	out, err := execute(t, "fetch", "--dir", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "counties.json")

	data, err := os.ReadFile(filepath.Join(dest, "education.json"))
	require.NoError(t, err)
	assert.Equal(t, testEducation, string(data))
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "counties.json", localName("https://example.com/data/counties.json?raw=1", 0))
	assert.Equal(t, "education.json", localName("https://example.com/", 1))
}
