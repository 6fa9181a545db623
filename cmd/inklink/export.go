package main

import (
	"io"
	"os"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Doc     string `arg:"" help:"Document to export" type:"existingfile"`
	Backend string `short:"b" help:"Export backend" enum:"org,html" default:"org"`
	Output  string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	m, err := root.module(g, nil)
	if err != nil {
		return err
	}
	defer m.Close(shutdownTimeout)

	buf, err := loadDocument(e.Doc)
	if err != nil {
		return err
	}
	m.Host().SetCurrent(buf)

	var w io.Writer = os.Stdout
	if e.Output != "" {
		f, err := os.Create(e.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return m.Export(e.Backend, w)
}
