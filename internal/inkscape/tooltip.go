package inkscape

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// Tooltip describes the image a link points to.
func Tooltip(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("Inkscape image: %s (new)", path)
	}
	return fmt.Sprintf("Inkscape image: %s (%s, modified %s)",
		path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}
