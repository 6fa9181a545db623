package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/inklink/internal/config"
	"github.com/dshills/inklink/internal/inklink"
	"github.com/dshills/inklink/internal/inkscape"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Doc    string `arg:"" help:"Document to insert the link into" type:"existingfile"`
	Offset int    `help:"Byte offset to insert at (default: end of document)" default:"-1"`
	Ask    bool   `help:"Prompt for the image file name"`
	NoWait bool   `name:"no-wait" help:"Return without waiting for the editor to exit"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	adjust := func(cfg *config.Config) {
		if n.Ask {
			cfg.AskForFileName = true
		}
	}
	m, err := root.module(g, adjust,
		inklink.WithPrompter(stdinPrompter{}),
		inklink.WithProcessOutput(os.Stderr),
	)
	if err != nil {
		return err
	}
	// Close terminates running editors.
	defer func() {
		if !n.NoWait {
			_ = m.Close(shutdownTimeout)
		}
	}()

	buf, err := loadDocument(n.Doc)
	if err != nil {
		return err
	}
	m.Host().SetCurrent(buf)

	offset := n.Offset
	if offset < 0 {
		offset = buf.Len()
	}
	ins, proc, err := m.InsertLink(g.Ctx, offset)
	if err != nil {
		return err
	}
	if err := saveDocument(buf); err != nil {
		return err
	}
	fmt.Printf("inserted [[%s:%s]] at %d\n", m.Config().Scheme, ins.LinkPath, ins.Begin)

	if n.NoWait || proc == nil {
		return nil
	}
	return m.Wait(g.Ctx)
}

// stdinPrompter reads answers from standard input.
type stdinPrompter struct{}

func (stdinPrompter) Prompt(label, def string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s[%s] ", label, def)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ inkscape.Prompter = stdinPrompter{}
