package inkscape

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/script"
)

func TestUUIDGenerator(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		docPath string
		wantDir string
	}{
		{"default", "", "/notes/doc.org", "/notes/.inkscape"},
		{"relative", "figures", "/notes/doc.org", "/notes/figures"},
		{"absolute", "/srv/images", "/notes/doc.org", "/srv/images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := UUIDGenerator{Dir: tt.dir}.Generate(tt.docPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, filepath.Dir(path))
			assert.Equal(t, ".svg", filepath.Ext(path))
			assert.Len(t, strings.TrimSuffix(filepath.Base(path), ".svg"), 36)
		})
	}

	a, _ := UUIDGenerator{}.Generate("/n/d.org")
	b, _ := UUIDGenerator{}.Generate("/n/d.org")
	assert.NotEqual(t, a, b)
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gen.lua")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLuaGenerator(t *testing.T) {
	path := writeScript(t, `
function filename(docpath)
  return "figures/" .. inklink.stem(docpath) .. ".svg"
end`)

	gen, err := NewLuaGenerator(path, nil, nil)
	require.NoError(t, err)
	defer gen.Close()

	got, err := gen.Generate("/notes/today.org")
	require.NoError(t, err)
	assert.Equal(t, "/notes/figures/today.svg", got)
}

func TestLuaGenerator_FallsBack(t *testing.T) {
	path := writeScript(t, `function filename(docpath) error("nope") end`)
	fallback := GeneratorFunc(func(string) (string, error) { return "/fallback.svg", nil })

	gen, err := NewLuaGenerator(path, fallback, nil)
	require.NoError(t, err)
	defer gen.Close()

	got, err := gen.Generate("/notes/today.org")
	require.NoError(t, err)
	assert.Equal(t, "/fallback.svg", got)
}

func TestLuaGenerator_LoadErrors(t *testing.T) {
	_, err := NewLuaGenerator(writeScript(t, `x = 1`), nil, nil)
	assert.True(t, errors.Is(err, script.ErrFunctionNotFound))

	_, err = NewLuaGenerator(writeScript(t, `this is not lua`), nil, nil)
	assert.Error(t, err)

	_, err = NewLuaGenerator(filepath.Join(t.TempDir(), "missing.lua"), nil, nil)
	assert.Error(t, err)
}

func fixedGenerator(path string) Generator {
	return GeneratorFunc(func(string) (string, error) { return path, nil })
}

func TestInserter_Relative(t *testing.T) {
	buf := buffer.NewBufferFromString("before  after", buffer.WithPath("/notes/doc.org"))
	in := &Inserter{Scheme: "inkscape", Generator: fixedGenerator("/notes/.inkscape/a.svg")}

	ins, err := in.Insert(buf, 7)
	require.NoError(t, err)

	assert.Equal(t, "before [[inkscape:.inkscape/a.svg]] after", buf.Text())
	assert.Equal(t, "/notes/.inkscape/a.svg", ins.Path)
	assert.Equal(t, ".inkscape/a.svg", ins.LinkPath)
	assert.Equal(t, "[[inkscape:.inkscape/a.svg]]", buf.TextRange(ins.Begin, ins.End))
}

func TestInserter_Absolute(t *testing.T) {
	buf := buffer.NewBufferFromString("", buffer.WithPath("/notes/doc.org"))
	in := &Inserter{Scheme: "inkscape", Generator: fixedGenerator("/notes/.inkscape/a.svg"), Absolute: true}

	_, err := in.Insert(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "[[inkscape:/notes/.inkscape/a.svg]]", buf.Text())
}

func TestInserter_Prompt(t *testing.T) {
	buf := buffer.NewBufferFromString("", buffer.WithPath("/notes/doc.org"))

	var offered string
	in := &Inserter{
		Scheme:    "inkscape",
		Generator: fixedGenerator("/notes/.inkscape/a.svg"),
		Ask:       true,
		Prompter: PrompterFunc(func(label, def string) (string, error) {
			offered = def
			return "pics/chosen.svg", nil
		}),
	}

	ins, err := in.Insert(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "/notes/.inkscape/a.svg", offered)
	assert.Equal(t, "/notes/pics/chosen.svg", ins.Path)
	assert.Equal(t, "[[inkscape:pics/chosen.svg]]", buf.Text())

	in.Prompter = PrompterFunc(func(string, string) (string, error) { return "", errors.New("cancelled") })
	_, err = in.Insert(buf, 0)
	assert.Error(t, err)
}

func TestInserter_OutOfRange(t *testing.T) {
	buf := buffer.NewBufferFromString("x", buffer.WithPath("/notes/doc.org"))
	in := &Inserter{Scheme: "inkscape", Generator: fixedGenerator("/notes/a.svg")}

	_, err := in.Insert(buf, 5)
	assert.ErrorIs(t, err, buffer.ErrOffsetOutOfRange)
}

func TestTooltip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.svg")
	assert.Equal(t, "Inkscape image: "+path+" (new)", Tooltip(path))

	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))
	tip := Tooltip(path)
	assert.Contains(t, tip, "2.0 kB")
	assert.Contains(t, tip, "modified")
}
