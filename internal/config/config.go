// Package config holds the command-line and file configuration shared by the
// wireworld binaries.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"wireworld/internal/core"
)

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// VerifyConfig tunes headless verification.
type VerifyConfig struct {
	Workers  int `yaml:"workers" validate:"gte=1,lte=256"`
	MaxTicks int `yaml:"max_ticks" validate:"gte=0"`
}

// ServerConfig tunes the HTTP surface.
type ServerConfig struct {
	Addr    string `yaml:"addr" validate:"required"`
	Metrics bool   `yaml:"metrics"`
}

// WatchConfig tunes the level directory watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"gt=0"`
}

// Config represents the parameters for every wireworld command.
type Config struct {
	Log LogConfig `yaml:"log"`
	// Tick is the playback interval a session starts with.
	Tick time.Duration `yaml:"tick" validate:"gt=0"`
	// Levels is a directory of level files. Empty uses the embedded levels.
	Levels  string       `yaml:"levels"`
	Catalog string       `yaml:"catalog"`
	Scale   int          `yaml:"scale" validate:"gte=1,lte=64"`
	Verify  VerifyConfig `yaml:"verify"`
	Server  ServerConfig `yaml:"server"`
	Watch   WatchConfig  `yaml:"watch"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Tick:   core.DefaultTickInterval,
		Scale:  16,
		Verify: VerifyConfig{Workers: 4},
		Server: ServerConfig{Addr: ":8080", Metrics: true},
		Watch:  WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn or error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
	fs.DurationVar(&c.Tick, "tick", c.Tick, "playback interval per tick")
	fs.StringVar(&c.Levels, "levels", c.Levels, "directory of level files (default: embedded levels)")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "level catalog YAML file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.Verify.Workers, "workers", c.Verify.Workers, "parallel verification runs")
	fs.IntVar(&c.Verify.MaxTicks, "max-ticks", c.Verify.MaxTicks, "tick budget per verification run (0 derives it from timeouts)")
	fs.StringVar(&c.Server.Addr, "addr", c.Server.Addr, "HTTP listen address")
	fs.BoolVar(&c.Server.Metrics, "metrics", c.Server.Metrics, "serve Prometheus metrics on /metrics")
	fs.DurationVar(&c.Watch.Debounce, "debounce", c.Watch.Debounce, "delay before re-verifying edited files")
}

// Load overlays the YAML file at path onto c. Flags already set on fs keep
// their command-line values.
func (c *Config) Load(path string, fs *pflag.FlagSet) error {
	changed := map[string]string{}
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) { changed[f.Name] = f.Value.String() })
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	for name, v := range changed {
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("config: flag %s: %w", name, err)
		}
	}
	return nil
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger builds the slog logger described by the log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
