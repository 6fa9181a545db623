package watcher

import (
	"errors"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op is a set of file changes.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

var opNames = []struct {
	op   Op
	fs   fsnotify.Op
	name string
}{
	{OpCreate, fsnotify.Create, "CREATE"},
	{OpWrite, fsnotify.Write, "WRITE"},
	{OpRemove, fsnotify.Remove, "REMOVE"},
	{OpRename, fsnotify.Rename, "RENAME"},
}

func (op Op) String() string {
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if parts == nil {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of o is set in op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a debounced change to one image file. Op accumulates every
// change seen during the quiet period.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Handler receives debounced events.
type Handler func(Event)

// Stats describes watcher activity.
type Stats struct {
	WatchedPaths int
	Pending      int
	Delivered    int64
	Errors       int64
	LastError    error
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	for _, n := range opNames {
		if fsOp.Has(n.fs) {
			op |= n.op
		}
	}
	return op
}
