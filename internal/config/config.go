package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inklink/internal/inkscape"
	"github.com/dshills/inklink/internal/link"
	"github.com/dshills/inklink/internal/logging"
)

// Config holds the inklink settings.
type Config struct {
	// Scheme is the link type name.
	Scheme string `toml:"scheme" yaml:"scheme"`
	// ExportScheme replaces Scheme in exported documents.
	ExportScheme string `toml:"export_scheme" yaml:"export_scheme"`

	// AskForFileName prompts for a file name when inserting a link.
	AskForFileName bool `toml:"ask_for_file_name" yaml:"ask_for_file_name"`
	// UseAbsolutePaths writes absolute paths into inserted links.
	UseAbsolutePaths bool `toml:"use_absolute_paths" yaml:"use_absolute_paths"`
	// ImageDirectory holds generated images, relative to the document.
	ImageDirectory string `toml:"image_directory" yaml:"image_directory"`

	// TemplatePath is copied for new images. Empty uses a blank drawing.
	TemplatePath  string `toml:"template_path" yaml:"template_path"`
	CreateCommand string `toml:"create_command" yaml:"create_command"`
	OpenCommand   string `toml:"open_command" yaml:"open_command"`

	Preview   PreviewConfig   `toml:"preview" yaml:"preview"`
	Generator GeneratorConfig `toml:"generator" yaml:"generator"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`

	// FilenameGenerator overrides generated image paths. It takes the
	// document path. Set from code only.
	FilenameGenerator func(docPath string) string `toml:"-" yaml:"-"`
}

// PreviewConfig controls inline previews.
type PreviewConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Watch refreshes previews when image files change on disk.
	Watch    bool   `toml:"watch" yaml:"watch"`
	Debounce string `toml:"debounce" yaml:"debounce"`
}

// GeneratorConfig selects a scripted file name generator.
type GeneratorConfig struct {
	// Script is a Lua file defining filename(docpath).
	Script string `toml:"script" yaml:"script"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Listen is the address serving /metrics for long-running commands.
	Listen string `toml:"listen" yaml:"listen"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Scheme:         "inkscape",
		ExportScheme:   "file",
		ImageDirectory: inkscape.DefaultImageDirectory,
		CreateCommand:  inkscape.DefaultCreateCommand,
		OpenCommand:    inkscape.DefaultOpenCommand,
		Preview: PreviewConfig{
			Enabled:  true,
			Debounce: "150ms",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DebounceDuration returns the parsed preview debounce.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Preview.Debounce)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Validate checks the settings and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if err := link.ValidateScheme(c.Scheme); err != nil {
		errs = append(errs, &ValidationError{Setting: "scheme", Message: "invalid link type", Err: err})
	}
	if err := link.ValidateScheme(c.ExportScheme); err != nil {
		errs = append(errs, &ValidationError{Setting: "export_scheme", Message: "invalid link type", Err: err})
	}
	if c.Scheme != "" && c.Scheme == c.ExportScheme {
		errs = append(errs, &ValidationError{Setting: "export_scheme", Message: "must differ from scheme"})
	}
	if err := inkscape.ValidateCommand(c.CreateCommand, 2); err != nil {
		errs = append(errs, &ValidationError{Setting: "create_command", Message: "bad template", Err: err})
	}
	if err := inkscape.ValidateCommand(c.OpenCommand, 1); err != nil {
		errs = append(errs, &ValidationError{Setting: "open_command", Message: "bad template", Err: err})
	}
	if c.Preview.Debounce != "" {
		if d, err := time.ParseDuration(c.Preview.Debounce); err != nil || d < 0 {
			errs = append(errs, &ValidationError{Setting: "preview.debounce", Message: fmt.Sprintf("invalid duration %q", c.Preview.Debounce)})
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Setting: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}

	return errors.Join(errs...)
}

// Encode writes the settings as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
