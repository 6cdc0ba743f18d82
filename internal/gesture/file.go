package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileSource follows a JSON sample file rewritten by an external classifier
// process. The directory is watched rather than the file so that writers that
// replace the file atomically keep working.
type FileSource struct {
	path   string
	w      *fsnotify.Watcher
	start  time.Time
	primed bool

	mu     sync.Mutex
	closed bool
}

// OpenFile starts watching path. The file must exist.
func OpenFile(path string) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &SourceError{Source: "file", Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &SourceError{Source: "file:" + path, Err: err}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &SourceError{Source: "file:" + path, Err: err}
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, &SourceError{Source: "file:" + path, Err: err}
	}
	return &FileSource{path: abs, w: w, start: time.Now()}, nil
}

func (f *FileSource) Name() string { return "file:" + filepath.Base(f.path) }

// Next returns the file's current sample on the first call, then blocks until
// the file changes again.
func (f *FileSource) Next(ctx context.Context) Result {
	if !f.primed {
		f.primed = true
		return f.read()
	}
	for {
		select {
		case <-ctx.Done():
			return failed(ctx.Err())
		case ev, ok := <-f.w.Events:
			if !ok {
				return failed(ErrClosed)
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			f.drain()
			return f.read()
		case err, ok := <-f.w.Errors:
			if !ok {
				return failed(ErrClosed)
			}
			return failed(fmt.Errorf("watch %s: %w", f.path, err))
		}
	}
}

// drain drops events already queued so a burst of writes yields one read.
func (f *FileSource) drain() {
	for {
		select {
		case _, ok := <-f.w.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (f *FileSource) read() Result {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Mid-rename; the next Create event brings it back.
			return noDetection()
		}
		return failed(err)
	}
	return parseSample(data, time.Since(f.start))
}

// parseSample decodes one classifier frame. Empty or half-written files count
// as no detection rather than failures.
func parseSample(data []byte, at time.Duration) Result {
	if len(data) == 0 {
		return noDetection()
	}
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return noDetection()
	}
	if _, ok := s.Primary(); !ok {
		return noDetection()
	}
	s.At = at
	return detected(s)
}

func (f *FileSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	return f.w.Close()
}
