package preview

import (
	"github.com/google/uuid"

	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/mutation"
	"github.com/dshills/inklink/internal/svg"
)

// Overlay is an image displayed over a link region.
type Overlay struct {
	id         string
	buf        *buffer.Buffer
	sub        *mutation.Subscription
	image      *svg.Handle
	path       string
	bracketed  bool
	generation uint64
}

func newOverlay(buf *buffer.Buffer, image *svg.Handle, path string, bracketed bool, gen uint64) *Overlay {
	return &Overlay{
		id:         uuid.NewString(),
		buf:        buf,
		image:      image,
		path:       path,
		bracketed:  bracketed,
		generation: gen,
	}
}

// ID returns the overlay identifier.
func (o *Overlay) ID() string { return o.id }

// Buffer returns the base buffer the overlay is attached to.
func (o *Overlay) Buffer() *buffer.Buffer { return o.buf }

// Image returns the decoded image.
func (o *Overlay) Image() *svg.Handle { return o.image }

// Path returns the image path.
func (o *Overlay) Path() string { return o.path }

// Bracketed reports whether the link was written in bracket form.
func (o *Overlay) Bracketed() bool { return o.bracketed }

// Generation returns the redraw generation the overlay was created in.
func (o *Overlay) Generation() uint64 { return o.generation }

// Region returns the covered byte range. Edits before the region shift it.
func (o *Overlay) Region() buffer.Range {
	start, end := o.sub.Region()
	return buffer.Range{Start: start, End: end}
}

// IsVisible returns false once the overlay has been removed.
func (o *Overlay) IsVisible() bool {
	return o.sub.IsActive()
}
