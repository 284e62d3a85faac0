// Package config loads geomkit settings from TOML or YAML files and the
// environment.
//
// A file has four sections:
//
//	[chart]   margins, palette, toggles and per-chart knobs
//	[cache]   backend selection and connection details
//	[log]     level, format and optional rotated log file
//	[server]  HTTP API address and timeouts
//
// Files are decoded onto [Default], so omitted keys keep their defaults.
// Environment variables prefixed with GEOMKIT_ override file values.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "geomkit"

// Cache backends.
const (
	CacheFile   = "file"
	CacheNull   = "null"
	CacheRedis  = "redis"
	CacheMongo  = "mongo"
	CacheSQLite = "sqlite"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Environment overrides.
const (
	EnvCacheBackend = "GEOMKIT_CACHE_BACKEND"
	EnvCacheURL     = "GEOMKIT_CACHE_URL"
	EnvLogLevel     = "GEOMKIT_LOG_LEVEL"
	EnvLogFormat    = "GEOMKIT_LOG_FORMAT"
	EnvLogFile      = "GEOMKIT_LOG_FILE"
	EnvServerAddr   = "GEOMKIT_SERVER_ADDR"
	EnvHexRadius    = "GEOMKIT_HEX_RADIUS"
)

// =============================================================================
// Types
// =============================================================================

// Chart holds presentation options shared by all layouts.
type Chart struct {
	Margin            geometry.Margin `toml:"margin" yaml:"margin" json:"margin"`
	ColorPalette      []string        `toml:"color_palette" yaml:"color_palette" json:"colorPalette"`
	ShowAxisX         bool            `toml:"show_axis_x" yaml:"show_axis_x" json:"showAxisX"`
	ShowAxisY         bool            `toml:"show_axis_y" yaml:"show_axis_y" json:"showAxisY"`
	ShowLegend        bool            `toml:"show_legend" yaml:"show_legend" json:"showLegend"`
	ShowLabels        bool            `toml:"show_labels" yaml:"show_labels" json:"showLabels"`
	AnimationsEnabled bool            `toml:"animations_enabled" yaml:"animations_enabled" json:"animationsEnabled"`
	HexRadius         float64         `toml:"hex_radius" yaml:"hex_radius" json:"hexRadius"`
	HexOrientation    string          `toml:"hex_orientation" yaml:"hex_orientation" json:"hexOrientation"`
	ShowMesh          bool            `toml:"show_mesh" yaml:"show_mesh" json:"showMesh"`
	ScalePoints       bool            `toml:"scale_points" yaml:"scale_points" json:"scalePoints"`
	ValueField        string          `toml:"value_field" yaml:"value_field" json:"valueField"`
	BinCountHint      int             `toml:"bin_count_hint" yaml:"bin_count_hint" json:"binCountHint"`
	Padding           float64         `toml:"padding" yaml:"padding" json:"padding"`
	RoundCells        bool            `toml:"round_cells" yaml:"round_cells" json:"roundCells"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`           // file backend
	URL      string `toml:"url" yaml:"url"`           // redis, mongo
	Path     string `toml:"path" yaml:"path"`         // sqlite
	Database string `toml:"database" yaml:"database"` // mongo
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// Log configures the CLI logger.
type Log struct {
	Level      string `toml:"level" yaml:"level"`
	Format     string `toml:"format" yaml:"format"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `toml:"addr" yaml:"addr"`
	Timeout      string `toml:"timeout" yaml:"timeout"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Config is the complete settings tree.
type Config struct {
	Chart  Chart  `toml:"chart" yaml:"chart"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Log    Log    `toml:"log" yaml:"log"`
	Server Server `toml:"server" yaml:"server"`
}

// =============================================================================
// Defaults
// =============================================================================

// DefaultChart returns the documented chart defaults.
func DefaultChart() Chart {
	return Chart{
		Margin:            geometry.DefaultMargin(),
		ColorPalette:      scale.Tableau10(),
		ShowAxisX:         true,
		ShowAxisY:         true,
		ShowLegend:        true,
		ShowLabels:        true,
		AnimationsEnabled: true,
		HexRadius:         30,
		HexOrientation:    string(geometry.Pointy),
		ValueField:        "value",
		BinCountHint:      40,
		Padding:           2,
		RoundCells:        true,
	}
}

// Default returns a fresh configuration holding every default.
func Default() *Config {
	return &Config{
		Chart: DefaultChart(),
		Cache: Cache{Backend: CacheFile, Database: appName, Prefix: appName + ":"},
		Log:   Log{Level: "info", Format: LogText, MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Server: Server{
			Addr:         ":8080",
			Timeout:      "30s",
			MaxBodyBytes: 10 << 20,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/geomkit/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path, applies environment overrides and validates
// the result. An empty path tries DefaultPath and silently skips a missing
// default file.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(Default())
		}
		path = p
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) && !explicit {
		return finish(Default())
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	cfg, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormatFromPath returns "yaml" for .yaml and .yml files and "toml"
// otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "toml"
}

// Decode reads a TOML or YAML document onto Default. Unknown keys are
// rejected.
func Decode(r io.Reader, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml config")
		}
	case "toml":
		md, err := toml.NewDecoder(r).Decode(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
	}
	return cfg, nil
}

// Encode writes cfg as TOML or YAML.
func Encode(w io.Writer, cfg *Config, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvCacheBackend)); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvCacheURL)); v != "" {
		c.Cache.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogFile)); v != "" {
		c.Log.File = v
	}
	if v := strings.TrimSpace(getenv(EnvServerAddr)); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv(EnvHexRadius)); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			c.Chart.HexRadius = r
		}
	}
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNull, CacheSQLite:
	case CacheRedis:
		if err := errors.ValidateURL(c.Cache.URL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.url")
		}
	case CacheMongo:
		if err := errors.ValidateURL(c.Cache.URL, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != LogText && c.Log.Format != LogJSON {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log format %q", c.Log.Format)
	}
	if _, err := c.Server.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Validate checks chart options.
func (ch Chart) Validate() error {
	m := ch.Margin
	if err := errors.ValidateMargin(m.Top, m.Right, m.Bottom, m.Left); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.margin")
	}
	if err := errors.ValidatePalette(ch.ColorPalette); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.color_palette")
	}
	if !(ch.HexRadius > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.hex_radius must be positive, got %v", ch.HexRadius)
	}
	switch geometry.Orientation(ch.HexOrientation) {
	case geometry.Pointy, geometry.Flat:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "chart.hex_orientation must be pointy or flat, got %q", ch.HexOrientation)
	}
	if err := errors.ValidateFieldName(ch.ValueField); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.value_field")
	}
	if ch.BinCountHint <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.bin_count_hint must be positive, got %d", ch.BinCountHint)
	}
	if ch.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.padding cannot be negative")
	}
	return nil
}

// TimeoutDuration parses Server.Timeout. An empty value means no timeout.
func (s Server) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "server.timeout %q is not a valid duration", s.Timeout)
	}
	return d, nil
}
