// Package atomicfile replaces files through a synced temporary file and a
// rename, so a failed write leaves the original untouched.
package atomicfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Option configures Write.
type Option func(*options)

type options struct {
	backupSuffix    string
	preserveModTime bool
}

// WithBackup renames an existing target to path+suffix before replacing it.
func WithBackup(suffix string) Option {
	return func(o *options) {
		o.backupSuffix = suffix
	}
}

// WithPreserveModTime copies the target's modification time onto the
// replacement.
func WithPreserveModTime() Option {
	return func(o *options) {
		o.preserveModTime = true
	}
}

// Write calls fn with a temporary file in the directory of path, then
// syncs it and renames it over path. If any step fails the temporary file
// is removed and path is left as it was.
func Write(path string, fn func(w io.Writer) error, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var modTime time.Time
	if o.preserveModTime {
		if info, err := os.Stat(path); err == nil {
			modTime = info.ModTime()
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".anytag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := fn(tempFile); err != nil {
		return err
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600; keep the target's mode when there is one
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tempPath, info.Mode().Perm()) //nolint:errcheck // Non-fatal
	} else {
		_ = os.Chmod(tempPath, 0o644) //nolint:errcheck // Non-fatal
	}

	if o.backupSuffix != "" {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, path+o.backupSuffix); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if !modTime.IsZero() {
		_ = os.Chtimes(path, modTime, modTime) //nolint:errcheck // Non-fatal: file was written successfully
	}

	return nil
}
