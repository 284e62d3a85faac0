package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/geomkit/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	m := cfg.Chart.Margin
	if m.Top != 40 || m.Right != 30 || m.Bottom != 60 || m.Left != 60 {
		t.Errorf("margin = %+v", m)
	}
	if cfg.Chart.HexRadius != 30 || cfg.Chart.BinCountHint != 40 || cfg.Chart.Padding != 2 {
		t.Errorf("chart knobs = %+v", cfg.Chart)
	}
	if !cfg.Chart.RoundCells {
		t.Error("treemap cells should snap to whole units by default")
	}
	if cfg.Chart.ValueField != "value" || len(cfg.Chart.ColorPalette) != 10 {
		t.Errorf("value field %q palette %d", cfg.Chart.ValueField, len(cfg.Chart.ColorPalette))
	}

	cfg.Chart.ColorPalette[0] = "#000000"
	if Default().Chart.ColorPalette[0] == "#000000" {
		t.Error("Default must return a fresh value")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{"toml", "toml", `
[chart]
hex_radius = 12
show_legend = false

[chart.margin]
top = 5

[cache]
backend = "null"
`},
		{"yaml", "yaml", `
chart:
  hex_radius: 12
  show_legend: false
  margin:
    top: 5
cache:
  backend: "null"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if cfg.Chart.HexRadius != 12 || cfg.Chart.ShowLegend {
				t.Errorf("chart = %+v", cfg.Chart)
			}
			if cfg.Chart.Margin.Top != 5 {
				t.Errorf("margin.top = %v, want 5", cfg.Chart.Margin.Top)
			}
			if cfg.Cache.Backend != CacheNull {
				t.Errorf("backend = %q", cfg.Cache.Backend)
			}
			// Omitted keys keep defaults.
			if cfg.Chart.BinCountHint != 40 || !cfg.Chart.ShowAxisX {
				t.Errorf("defaults lost: %+v", cfg.Chart)
			}
		})
	}
}

func TestDecodeUnknownKey(t *testing.T) {
	for _, tc := range []struct{ format, doc string }{
		{"toml", "[chart]\nhex_radiuss = 3\n"},
		{"yaml", "chart:\n  hex_radiuss: 3\n"},
	} {
		_, err := Decode(strings.NewReader(tc.doc), tc.format)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: err = %v, want INVALID_CONFIG", tc.format, err)
		}
	}
	if _, err := Decode(strings.NewReader(""), "ini"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unsupported format err = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvCacheBackend: " Redis ",
		EnvCacheURL:     "redis://localhost:6379/0",
		EnvLogLevel:     "DEBUG",
		EnvServerAddr:   "127.0.0.1:9000",
		EnvHexRadius:    "18.5",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Cache.Backend != CacheRedis || cfg.Cache.URL != env[EnvCacheURL] {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Log.Level != "debug" || cfg.Server.Addr != "127.0.0.1:9000" || cfg.Chart.HexRadius != 18.5 {
		t.Errorf("overrides not applied: %+v %+v %v", cfg.Log, cfg.Server, cfg.Chart.HexRadius)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	bad := Default()
	bad.ApplyEnv(func(k string) string {
		if k == EnvHexRadius {
			return "wide"
		}
		return ""
	})
	if bad.Chart.HexRadius != 30 {
		t.Errorf("unparsable radius should be ignored, got %v", bad.Chart.HexRadius)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative margin", func(c *Config) { c.Chart.Margin.Left = -1 }},
		{"empty palette", func(c *Config) { c.Chart.ColorPalette = nil }},
		{"bad color", func(c *Config) { c.Chart.ColorPalette = []string{"red"} }},
		{"zero radius", func(c *Config) { c.Chart.HexRadius = 0 }},
		{"orientation", func(c *Config) { c.Chart.HexOrientation = "diagonal" }},
		{"empty value field", func(c *Config) { c.Chart.ValueField = "" }},
		{"bin hint", func(c *Config) { c.Chart.BinCountHint = 0 }},
		{"padding", func(c *Config) { c.Chart.Padding = -2 }},
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis url", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.URL = "http://x" }},
		{"mongo url", func(c *Config) { c.Cache.Backend = CacheMongo }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"timeout", func(c *Config) { c.Server.Timeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvHexRadius, "")
	dir := t.TempDir()

	path := filepath.Join(dir, "geomkit.yml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Log.Level)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit file err = %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("missing default file should fall back to defaults: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil || got != filepath.Join("/tmp/xdg", "geomkit", "config.toml") {
		t.Errorf("DefaultPath() = %q, %v", got, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []string{"toml", "yaml"} {
		var buf bytes.Buffer
		cfg := Default()
		cfg.Chart.HexRadius = 9
		if err := Encode(&buf, cfg, format); err != nil {
			t.Fatalf("%s Encode: %v", format, err)
		}
		got, err := Decode(&buf, format)
		if err != nil {
			t.Fatalf("%s Decode: %v", format, err)
		}
		if got.Chart.HexRadius != 9 || got.Chart.Margin != cfg.Chart.Margin {
			t.Errorf("%s round trip lost values: %+v", format, got.Chart)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]string{"a.toml": "toml", "a.YAML": "yaml", "b.yml": "yaml", "c": "toml"} {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
