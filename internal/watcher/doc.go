// Package watcher reports changes to image files on disk.
//
// A Watcher watches directories with fsnotify, keeps only events for files
// with the configured extensions and coalesces rapid changes to one path
// into a single event delivered after a quiet period. Editors save a
// drawing in several writes; the debounce turns that into one refresh.
package watcher
