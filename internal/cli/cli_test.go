package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
)

const salesJSON = `[
  {"name": "north", "value": 30},
  {"name": "south", "value": 50},
  {"name": "east",  "value": 20}
]`

// execute runs the root command with a private config and cache directory.
func execute(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, env := range []string{"GEOMKIT_CACHE_BACKEND", "GEOMKIT_LOG_LEVEL", "GEOMKIT_LOG_FORMAT", "GEOMKIT_LOG_FILE"} {
		t.Setenv(env, "")
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return c, root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg, ,dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"layout", "render", "scales", "validate", "serve", "preview", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config", "log-file", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("global flag --%s missing", flag)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)

	if _, err := execute(t, "layout", input, "-c", "treemap", "--width", "400", "--height", "300"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sales.treemap.json"))
	if err != nil {
		t.Fatalf("scene not written: %v", err)
	}
	scene, err := geometry.UnmarshalScene(data)
	if err != nil {
		t.Fatal(err)
	}
	if scene.Chart != "treemap" || len(scene.Layer(geometry.LayerCells)) != 3 {
		t.Errorf("scene = %s with %d cells", scene.Chart, len(scene.Layer(geometry.LayerCells)))
	}
}

func TestLayoutCommandRejectsUnknownChart(t *testing.T) {
	input := writeFile(t, t.TempDir(), "sales.json", salesJSON)
	_, err := execute(t, "layout", input, "-c", "pie")
	if errors.GetCode(err) != errors.ErrCodeInvalidChart {
		t.Errorf("err = %v, want INVALID_CHART", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)
	out := filepath.Join(dir, "out", "chart")

	if _, err := execute(t, "render", input, "-c", "treemap", "-f", "svg,json", "-o", out, "--width", "400", "--height", "300"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".treemap.svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("svg = %.40q", svg)
	}
	if _, err := os.Stat(out + ".treemap.json"); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestRenderCommandGraphFormatNeedsHierarchyChart(t *testing.T) {
	input := writeFile(t, t.TempDir(), "sales.json", salesJSON)
	_, err := execute(t, "render", input, "-c", "histogram", "-f", "dot")
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	records := writeFile(t, dir, "records.json", salesJSON)
	tree := writeFile(t, dir, "tree.json", `{"name":"root","children":[{"name":"a","value":1}]}`)
	bad := writeFile(t, dir, "bad.json", `[1, 2]`)
	csv := writeFile(t, dir, "flat.csv", "name,value\na,1\nb,2\n")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"records inferred", []string{"validate", records}, false},
		{"hierarchy inferred", []string{"validate", tree}, false},
		{"hierarchy explicit", []string{"validate", tree, "--kind", "hierarchy"}, false},
		{"records as hierarchy", []string{"validate", records, "--kind", "hierarchy"}, true},
		{"scalar items", []string{"validate", bad}, true},
		{"csv records", []string{"validate", csv}, false},
		{"csv as hierarchy", []string{"validate", csv, "--kind", "hierarchy"}, true},
		{"unknown kind", []string{"validate", records, "--kind", "graph"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScalesCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)
	out := filepath.Join(dir, "scales.json")

	if _, err := execute(t, "scales", input, "--category", "name", "--measure", "value", "-o", out); err != nil {
		t.Fatalf("scales: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"key": "north"`) {
		t.Errorf("descriptor = %s", data)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "geomkit.toml", `
[cache]
backend = "null"

[chart]
hex_radius = 7
`)
	c, err := execute(t, "--config", cfgPath, "cache", "path")
	if err == nil {
		t.Error("null cache should have no path")
	}
	if c.Config.Cache.Backend != "null" || c.Config.Chart.HexRadius != 7 {
		t.Errorf("config = %+v", c.Config)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path")
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLogFormatFlagValidated(t *testing.T) {
	_, err := execute(t, "--log-format", "xml", "cache", "path")
	if err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "chart")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("digraph G {}")}

	paths, err := writeArtifacts(base, []string{"dot", "svg", "svg", "png"}, artifacts)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != base+".dot" || paths[1] != base+".svg" {
		t.Errorf("paths = %v", paths)
	}
}

func TestCachePruneAndClear(t *testing.T) {
	for _, sub := range []string{"prune", "clear"} {
		if _, err := execute(t, "cache", sub); err != nil {
			t.Errorf("cache %s: %v", sub, err)
		}
	}
}
