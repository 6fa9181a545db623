package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	Doc string `arg:"" help:"Document to scan" type:"existingfile"`
	All bool   `short:"a" help:"List links of every type"`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	m, err := root.module(g, nil)
	if err != nil {
		return err
	}
	defer m.Close(shutdownTimeout)

	buf, err := loadDocument(l.Doc)
	if err != nil {
		return err
	}
	m.Host().SetCurrent(buf)

	scheme := m.Config().Scheme
	local := map[string]bool{scheme: true, "file": true}
	if l.All {
		scheme = ""
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE:COL\tOFFSET\tTYPE\tPATH\tIMAGE")
	for _, occ := range m.Document().Occurrences(scheme) {
		pt := buf.OffsetToPoint(occ.Begin)
		image := "-"
		if local[occ.Scheme] {
			image = describe(occ.Path)
		}
		fmt.Fprintf(tw, "%d:%d\t%d-%d\t%s\t%s\t%s\n",
			pt.Line+1, pt.Column+1, occ.Begin, occ.End, occ.Scheme, occ.Path, image)
	}
	return tw.Flush()
}

func describe(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return fmt.Sprintf("%s, %s", humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}
