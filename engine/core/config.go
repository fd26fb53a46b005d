package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config for the engine run. It can be loaded from a TOML file; fields not
// present in the file keep their defaults.
type Config struct {
	Title      string     `toml:"title"`
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	VSync      bool       `toml:"vsync"`
	ClearColor [4]float32 `toml:"clear_color"` // RGBA

	// ES makes the context behave as GLES: no polygon mode, RGBA readback.
	ES bool `toml:"es"`
	// DisableProcs lists GL symbols to leave unresolved even when the
	// driver provides them.
	DisableProcs []string `toml:"disable_procs"`

	MaxQuads int    `toml:"max_quads"`
	LogLevel string `toml:"log_level"`
	// MaxFrames stops the loop after that many frames; 0 runs until closed.
	MaxFrames int `toml:"max_frames"`
}

// DefaultConfig returns the sandbox defaults.
func DefaultConfig() Config {
	return Config{
		Title:      "es2 sandbox",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: [4]float32{0.08, 0.10, 0.12, 1},
		MaxQuads:   10000,
		LogLevel:   "info",
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %q: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Write encodes the config as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Width, c.Height))
	}
	if c.MaxQuads <= 0 {
		errs = append(errs, fmt.Errorf("max_quads %d", c.MaxQuads))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// NewLogger returns a text logger writing to stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
