package main

import (
	"fmt"
	"os"

	"github.com/dshills/inklink/internal/inklink"
)

// OpenCmd implements the 'open' command.
type OpenCmd struct {
	Doc    string `arg:"" help:"Document containing the link" type:"existingfile"`
	Offset int    `arg:"" help:"Byte offset of the link"`
	NoWait bool   `name:"no-wait" help:"Return without waiting for the editor to exit"`
}

func (o *OpenCmd) Run(g *Global, root *CLI) error {
	m, err := root.module(g, nil, inklink.WithProcessOutput(os.Stderr))
	if err != nil {
		return err
	}
	// Close terminates running editors.
	defer func() {
		if !o.NoWait {
			_ = m.Close(shutdownTimeout)
		}
	}()

	buf, err := loadDocument(o.Doc)
	if err != nil {
		return err
	}
	m.Host().SetCurrent(buf)

	t, ok := m.Target(o.Offset)
	if !ok {
		return fmt.Errorf("no %s link at offset %d", m.Config().Scheme, o.Offset)
	}
	if err := m.RunAction(g.Ctx, o.Offset); err != nil {
		return err
	}
	g.Logger.Info("opened %s", t.Value)

	if o.NoWait {
		return nil
	}
	return m.Wait(g.Ctx)
}
