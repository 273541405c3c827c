// Package sink delivers exported documents to files and streams.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// ErrBadFilename is returned for names that are empty or refer to a
// directory.
var ErrBadFilename = errors.New("bad export filename")

// FileSink writes each document into Dir, replacing any existing file
// atomically.
type FileSink struct {
	Dir string
}

var _ types.Sink = (*FileSink)(nil)

// Path returns where Save puts filename. Only the base name is used so a
// document can never land outside Dir.
func (s *FileSink) Path(filename string) (string, error) {
	base := filepath.Base(filename)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("%w: %q", ErrBadFilename, filename)
	}
	return filepath.Join(s.Dir, base), nil
}

// Save writes data to Dir/filename via a synced temp file and rename.
func (s *FileSink) Save(filename, _ string, data []byte) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing export: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting export mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming export: %w", err)
	}
	return nil
}

// WriterSink streams documents to W, ending each with a newline when it
// lacks one.
type WriterSink struct {
	W io.Writer
}

var _ types.Sink = WriterSink{}

// Save writes data to W.
func (s WriterSink) Save(_, _ string, data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, err := io.WriteString(s.W, "\n")
		return err
	}
	return nil
}
