package buffer

// Option configures a Buffer.
type Option func(*Buffer)

// WithName sets the buffer display name.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithPath associates the buffer with a file on disk. Link paths in the
// document are resolved relative to the file's directory.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.store.path = path
	}
}
