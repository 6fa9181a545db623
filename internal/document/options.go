package document

// DefaultSchemes are recognized as plain links without configuration.
var DefaultSchemes = []string{"file", "http", "https", "mailto"}

// urlSchemes are never resolved against the filesystem.
var urlSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"ftp":    true,
	"fuzzy":  true,
}

type parseConfig struct {
	baseDir string
	schemes []string
}

// Option configures parsing.
type Option func(*parseConfig)

// WithBaseDir sets the directory relative link paths resolve against.
func WithBaseDir(dir string) Option {
	return func(c *parseConfig) {
		c.baseDir = dir
	}
}

// WithSchemes adds schemes recognized as plain (unbracketed) links.
func WithSchemes(schemes ...string) Option {
	return func(c *parseConfig) {
		for _, s := range schemes {
			if s == "" {
				continue
			}
			dup := false
			for _, have := range c.schemes {
				if have == s {
					dup = true
					break
				}
			}
			if !dup {
				c.schemes = append(c.schemes, s)
			}
		}
	}
}
