package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/inklink/internal/config"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/inklink"
	"github.com/dshills/inklink/internal/logging"
)

// shutdownTimeout bounds how long editors get to exit on shutdown.
const shutdownTimeout = 5 * time.Second

// Global is shared by every command.
type Global struct {
	Ctx    context.Context
	Logger *logging.Logger
}

// CLI is the command tree.
type CLI struct {
	Config  string `short:"c" help:"Settings file (default: ~/.config/inklink/config.toml)" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Export   ExportCmd   `cmd:"" help:"Export a document with image links rewritten to file links"`
	Links    LinksCmd    `cmd:"" help:"List the image links in a document"`
	Open     OpenCmd     `cmd:"" help:"Open the image linked at an offset, creating it if needed"`
	New      NewCmd      `cmd:"" help:"Insert a link to a new image and open it"`
	Preview  PreviewCmd  `cmd:"" help:"Show a document with inline image previews"`
	Settings SettingsCmd `cmd:"" help:"Print the effective settings"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

func (c *CLI) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	return config.DefaultPath()
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath())
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// logger builds the logger before settings are loaded, so that settings
// errors are reported. Commands raise it to the configured level.
func (c *CLI) logger() *logging.Logger {
	lc := logging.DefaultConfig()
	lc.Timestamps = false
	if c.Verbose {
		lc.Level = logging.LevelDebug
	}
	return logging.New(lc)
}

// module loads settings and installs the link type.
// adjust, when set, edits the settings before the module is built.
func (c *CLI) module(g *Global, adjust func(*config.Config), opts ...inklink.Option) (*inklink.Module, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	g.Logger.SetLevel(cfg.LogLevel())

	opts = append([]inklink.Option{inklink.WithLogger(g.Logger)}, opts...)
	m, err := inklink.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Install(); err != nil {
		_ = m.Close(shutdownTimeout)
		return nil, err
	}
	return m, nil
}

// loadDocument reads path into a buffer.
func loadDocument(path string) (*buffer.Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return buffer.NewBufferFromReader(f, buffer.WithPath(abs))
}

// saveDocument writes buf back to its file.
func saveDocument(buf *buffer.Buffer) error {
	info, err := os.Stat(buf.Path())
	if err != nil {
		return err
	}
	return os.WriteFile(buf.Path(), []byte(buf.Text()), info.Mode().Perm())
}
