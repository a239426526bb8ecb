package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Sink receives the artifact files produced by Write. Names are flat, no
// directories.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes artifacts into a directory on disk.
type DirSink struct {
	dir string
}

// NewDirSink prepares an output directory. A non-empty directory is refused
// unless overwrite is set.
func NewDirSink(dir string, overwrite bool) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return nil, fmt.Errorf("output directory is not empty: %s (pass overwrite to allow)", dir)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(s.dir, name))
}

// Dir returns the directory artifacts are written into.
func (s *DirSink) Dir() string {
	return s.dir
}

// MemSink collects artifacts in memory. Useful in tests and for callers
// that ship the bundle elsewhere.
type MemSink struct {
	files map[string]*bytes.Buffer
}

func NewMemSink() *MemSink {
	return &MemSink{files: map[string]*bytes.Buffer{}}
}

func (s *MemSink) Create(name string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	s.files[name] = buf
	return nopCloser{buf}, nil
}

// Bytes returns the content of one artifact, nil when it was never written.
func (s *MemSink) Bytes(name string) []byte {
	buf, ok := s.files[name]
	if !ok {
		return nil
	}
	return buf.Bytes()
}

// Names lists the written artifacts in sorted order.
func (s *MemSink) Names() []string {
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
