// Package trash moves original input files into the freedesktop trash layout
// instead of deleting them outright.
//
// The pipeline consumes this through a single-method interface so tests can
// substitute their own collaborator.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"flacsmith/internal/fileutil"
)

// Trash moves files under a freedesktop-style trash directory
// (files/ plus info/ records).
type Trash struct {
	base string
}

// New locates the user trash directory ($XDG_DATA_HOME/Trash or
// ~/.local/share/Trash).
func New() (*Trash, error) {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return NewAt(filepath.Join(base, "Trash")), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewAt(filepath.Join(home, ".local", "share", "Trash")), nil
}

// NewAt uses an explicit trash directory.
func NewAt(base string) *Trash {
	return &Trash{base: base}
}

// Trash moves path into the trash, writing the matching .trashinfo record.
func (t *Trash) Trash(path string) error {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absolute); err != nil {
		return fmt.Errorf("stat %s: %w", absolute, err)
	}

	filesDir := filepath.Join(t.base, "files")
	infoDir := filepath.Join(t.base, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create trash directory %q: %w", dir, err)
		}
	}

	name := t.uniqueName(filesDir, infoDir, filepath.Base(absolute))
	target := filepath.Join(filesDir, name)

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		absolute, time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(filepath.Join(infoDir, name+".trashinfo"), []byte(info), 0o600); err != nil {
		return fmt.Errorf("write trash info: %w", err)
	}

	if err := os.Rename(absolute, target); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return fmt.Errorf("move to trash: %w", err)
		}
		// Trash lives on another filesystem; copy with verification before
		// removing the source.
		if err := fileutil.CopyFileVerified(absolute, target); err != nil {
			return fmt.Errorf("copy to trash: %w", err)
		}
		if err := os.Remove(absolute); err != nil {
			return fmt.Errorf("remove original after trash copy: %w", err)
		}
	}
	return nil
}

// uniqueName finds a basename unused by both the files and info directories,
// appending " (n)" before the extension the way desktop trash tools do.
func (t *Trash) uniqueName(filesDir, infoDir, base string) string {
	candidate := base
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 2; ; n++ {
		_, filesErr := os.Stat(filepath.Join(filesDir, candidate))
		_, infoErr := os.Stat(filepath.Join(infoDir, candidate+".trashinfo"))
		if errors.Is(filesErr, os.ErrNotExist) && errors.Is(infoErr, os.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
}
