package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DirSink writes records as JSON files below a directory.
type DirSink struct {
	dir string
}

// NewDirSink creates a DirSink at dir. The directory is created if it does not exist.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating audit directory %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// DefaultDir returns the default audit directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state/cbfarm/audit.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbfarm", "audit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "cbfarm-audit")
		}
		return filepath.Join("/tmp", "cbfarm-audit")
	}
	return filepath.Join(home, ".local", "state", "cbfarm", "audit")
}

// Record writes rec atomically. An existing record with the same key is replaced.
func (s *DirSink) Record(_ context.Context, rec Record) error {
	if rec.SubmissionID == "" || rec.Kind == "" {
		return fmt.Errorf("audit record needs a submission id and kind")
	}

	content, err := encode(rec)
	if err != nil {
		return fmt.Errorf("encoding audit record: %w", err)
	}

	path := s.Path(rec)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating audit subdirectory: %w", err)
	}

	// Atomic write: temp file + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating audit temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing audit temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing audit temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing audit temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming audit temp file: %w", err)
	}

	success = true
	return nil
}

// Path returns where rec is stored.
func (s *DirSink) Path(rec Record) string {
	return filepath.Join(s.dir, filepath.FromSlash(ObjectKey(rec)))
}

// Dir returns the audit directory.
func (s *DirSink) Dir() string {
	return s.dir
}
