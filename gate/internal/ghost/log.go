package ghost

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Log is an append-only JSON-lines file of ghost records. The file is created
// on the first Append, so a session that tracks nothing leaves no trace.
// It is safe for concurrent use.
type Log struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// NewLog returns a Log writing to path. It does not touch the filesystem.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes rec as a single line. The encoded record and its newline go
// out in one Write to an O_APPEND file so concurrent appenders never
// interleave.
func (l *Log) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ghost: encode record: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("ghost: log %q is closed", l.path)
	}
	if l.file == nil {
		if err := l.open(); err != nil {
			return err
		}
	}
	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("ghost: append: %w", err)
	}
	return nil
}

func (l *Log) open() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ghost: create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ghost: open log %q: %w", l.path, err)
	}
	l.file = f
	return nil
}

// Path returns the file path of the log.
func (l *Log) Path() string { return l.path }

// Close closes the underlying file if it was opened. Further appends fail.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
