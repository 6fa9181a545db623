package inkscape

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inklink/internal/metrics"
	"github.com/dshills/inklink/internal/process"
)

type launchCounter struct {
	metrics.NoopRecorder
	launches []string
}

func (l *launchCounter) IncProcessLaunched(kind string, outcome metrics.Outcome) {
	l.launches = append(l.launches, kind+":"+string(outcome))
}

func newTestEditor(t *testing.T, opts ...EditorOption) (*Editor, *process.FakeLauncher, string) {
	t.Helper()
	tmpl := filepath.Join(t.TempDir(), "template.svg")
	require.NoError(t, os.WriteFile(tmpl, blankTemplate, 0o644))

	fake := &process.FakeLauncher{}
	opts = append([]EditorOption{WithLauncher(fake), WithTemplatePath(tmpl)}, opts...)
	e, err := NewEditor(opts...)
	require.NoError(t, err)
	return e, fake, tmpl
}

func TestOpenOrCreate_CreatesMissing(t *testing.T) {
	rec := &launchCounter{}
	e, fake, tmpl := newTestEditor(t, WithRecorder(rec))
	dir := filepath.Join(t.TempDir(), "new", "nested")
	target := filepath.Join(dir, "x.svg")

	proc, err := e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)
	require.NotNil(t, proc)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cmds := fake.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "create", cmds[0].Name)
	assert.Equal(t, dir, cmds[0].Dir)
	assert.Equal(t, "cp "+tmpl+" x.svg && inkscape x.svg", cmds[0].Line)
	assert.Equal(t, []string{"create:success"}, rec.launches)
}

func TestOpenOrCreate_OpensExisting(t *testing.T) {
	e, fake, _ := newTestEditor(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "my drawing.svg")
	require.NoError(t, os.WriteFile(target, blankTemplate, 0o644))

	_, err := e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)

	cmds := fake.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "open", cmds[0].Name)
	assert.Equal(t, dir, cmds[0].Dir)
	assert.Equal(t, "inkscape 'my drawing.svg'", cmds[0].Line)
}

func TestOpenOrCreate_CustomCommands(t *testing.T) {
	e, fake, _ := newTestEditor(t,
		WithCreateCommand("new-drawing --from=%s --to=%s"),
		WithOpenCommand("draw %s"),
	)
	target := filepath.Join(t.TempDir(), "a.svg")

	_, err := e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(fake.Commands()[0].Line, "--to=a.svg"))
}

func TestOpenOrCreate_DuplicateSpawnsAreNotSerialized(t *testing.T) {
	e, fake, _ := newTestEditor(t)
	target := filepath.Join(t.TempDir(), "race.svg")

	_, err := e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)
	_, err = e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)

	cmds := fake.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "create", cmds[0].Name)
	assert.Equal(t, "create", cmds[1].Name, "the file does not exist until the editor writes it")
}

func TestOpenOrCreate_LaunchFailureIsNotReturned(t *testing.T) {
	rec := &launchCounter{}
	e, fake, _ := newTestEditor(t, WithRecorder(rec))
	fake.Err = errors.New("no such program")

	proc, err := e.OpenOrCreate(context.Background(), filepath.Join(t.TempDir(), "a.svg"))
	assert.NoError(t, err)
	assert.Nil(t, proc)
	assert.Equal(t, []string{"create:failure"}, rec.launches)
}

func TestOpenOrCreate_Errors(t *testing.T) {
	e, _, _ := newTestEditor(t)

	_, err := e.OpenOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	// A regular file where a directory is needed.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	_, err = e.OpenOrCreate(context.Background(), filepath.Join(blocker, "sub", "a.svg"))
	assert.Error(t, err)
}

func TestOpenOrCreate_RunsCreateCommand(t *testing.T) {
	sup := process.NewSupervisor()
	defer sup.Shutdown(time.Second)

	tmpl := filepath.Join(t.TempDir(), "tmpl.svg")
	require.NoError(t, os.WriteFile(tmpl, blankTemplate, 0o644))
	e, err := NewEditor(
		WithLauncher(sup),
		WithTemplatePath(tmpl),
		WithCreateCommand("cp %[1]s %[2]s"),
	)
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "fresh", "x.svg")
	proc, err := e.OpenOrCreate(context.Background(), target)
	require.NoError(t, err)
	require.NotNil(t, proc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, proc.Wait(ctx))
	assert.Equal(t, 0, proc.ExitCode())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, blankTemplate, data)
}

func TestEditor_DefaultTemplate(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	e, err := NewEditor(WithLauncher(&process.FakeLauncher{}))
	require.NoError(t, err)

	path, err := e.TemplatePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "inklink", "template.svg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestNewEditor_RejectsBadCommands(t *testing.T) {
	_, err := NewEditor(WithLauncher(&process.FakeLauncher{}), WithOpenCommand("inkscape"))
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = NewEditor(WithLauncher(&process.FakeLauncher{}), WithCreateCommand("inkscape %s"))
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		tmpl  string
		nargs int
		ok    bool
	}{
		{DefaultCreateCommand, 2, true},
		{DefaultOpenCommand, 1, true},
		{"cp %s %s", 2, true},
		{"inkscape %[2]s", 2, true},
		{"inkscape %[1]s", 2, false},
		{"inkscape %s", 2, false},
		{"inkscape %s %s", 1, false},
		{"inkscape %d", 1, false},
		{"inkscape", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			err := ValidateCommand(tt.tmpl, tt.nargs)
			assert.Equal(t, tt.ok, err == nil, "err = %v", err)
		})
	}
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "x.svg", shellQuote("x.svg"))
	assert.Equal(t, "/a/b-c_d.svg", shellQuote("/a/b-c_d.svg"))
	assert.Equal(t, "'my file.svg'", shellQuote("my file.svg"))
	assert.Equal(t, `'it'\''s.svg'`, shellQuote("it's.svg"))
	assert.Equal(t, "''", shellQuote(""))
}
