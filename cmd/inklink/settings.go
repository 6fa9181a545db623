package main

import (
	"fmt"
	"os"

	"github.com/dshills/inklink/internal/config"
)

// SettingsCmd implements the 'settings' command.
type SettingsCmd struct {
	Env bool `help:"List the environment variables that override settings"`
}

func (s *SettingsCmd) Run(_ *Global, root *CLI) error {
	if s.Env {
		for _, name := range config.EnvVars() {
			fmt.Println(name)
		}
		return nil
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n", root.configPath())
	return cfg.Encode(os.Stdout)
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("inklink %s (commit %s, built %s)\n", version, commit, date)
	return nil
}
