// Package config loads the optional TOML configuration file.
//
// A missing file is not an error: every field has a default, and a file only
// needs to name the values it overrides.
//
//	[defaults]
//	font_size = "large"
//	stitch_color = "#c0392b"
//
//	[limits]
//	max_grid_cells = 250000
//
//	[server]
//	addr = ":8080"
//
//	[export]
//	dir = "out"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/xstitch/dsl"
	"github.com/ByLCY/xstitch/pattern"
)

// Config is the decoded configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Limits   Limits   `toml:"limits"`
	Server   Server   `toml:"server"`
	Export   Export   `toml:"export"`

	// Undecoded lists keys present in the file that no field consumed.
	Undecoded []string `toml:"-"`
}

// Defaults are the request values used when a flag or request file leaves them unset.
type Defaults struct {
	MaxLines    int    `toml:"max_lines"`
	FontSize    string `toml:"font_size"`
	FontFamily  string `toml:"font_family"`
	LineSpacing string `toml:"line_spacing"`
	StitchColor string `toml:"stitch_color"`
	Fabric      string `toml:"fabric"`
	ShowGrid    bool   `toml:"show_grid"`
}

// Limits mirror pattern.Limits; zero disables a check.
type Limits struct {
	MaxGridCells    int `toml:"max_grid_cells"`
	MaxSurfaceSide  int `toml:"max_surface_side"`
	MaxBufferPixels int `toml:"max_buffer_pixels"`
}

// Server configures the HTTP adapter.
type Server struct {
	Addr string `toml:"addr"`
}

// Export configures where files are written.
type Export struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	req := pattern.DefaultRequest()
	limits := pattern.DefaultLimits()
	return Config{
		Defaults: Defaults{
			MaxLines:    req.MaxLines,
			FontSize:    string(req.FontSize),
			FontFamily:  string(req.FontFamily),
			LineSpacing: string(req.LineSpacing),
			StitchColor: req.StitchColor.Hex(),
			Fabric:      string(req.FabricColor),
			ShowGrid:    req.ShowGrid,
		},
		Limits: Limits{
			MaxGridCells:    limits.MaxGridCells,
			MaxSurfaceSide:  limits.MaxSurfaceSide,
			MaxBufferPixels: limits.MaxBufferPixels,
		},
		Server: Server{Addr: "127.0.0.1:8080"},
		Export: Export{Dir: "."},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/xstitch/config.toml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xstitch", "config.toml")
}

// Load decodes path over the defaults. An empty path or a missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	return Decode(string(data), cfg)
}

// Decode parses TOML text over base.
func Decode(data string, base Config) (Config, error) {
	cfg := base
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return base, fmt.Errorf("解析配置失败: %w", err)
	}
	for _, key := range meta.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	if _, err := cfg.Request(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Request converts the defaults section into a pattern.Request with empty text.
func (c Config) Request() (pattern.Request, error) {
	req := pattern.DefaultRequest()
	req.MaxLines = c.Defaults.MaxLines
	req.ShowGrid = c.Defaults.ShowGrid
	options := []struct{ key, value string }{
		{"font-size", c.Defaults.FontSize},
		{"font-family", c.Defaults.FontFamily},
		{"line-spacing", c.Defaults.LineSpacing},
		{"stitch-color", c.Defaults.StitchColor},
		{"fabric", c.Defaults.Fabric},
	}
	for _, opt := range options {
		if strings.TrimSpace(opt.value) == "" {
			continue
		}
		if err := dsl.ApplyOption(&req, opt.key, opt.value); err != nil {
			return pattern.DefaultRequest(), fmt.Errorf("配置 [defaults] 无效: %w", err)
		}
	}
	return req, nil
}

// PatternLimits returns the limits section as pattern.Limits.
func (c Config) PatternLimits() pattern.Limits {
	return pattern.Limits{
		MaxGridCells:    c.Limits.MaxGridCells,
		MaxSurfaceSide:  c.Limits.MaxSurfaceSide,
		MaxBufferPixels: c.Limits.MaxBufferPixels,
	}
}
