package trash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrashMovesFileAndWritesInfo(t *testing.T) {
	base := filepath.Join(t.TempDir(), "Trash")
	src := filepath.Join(t.TempDir(), "track.wv")
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	tr := NewAt(base)
	if err := tr.Trash(src); err != nil {
		t.Fatalf("Trash: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected original to be gone, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "files", "track.wv")); err != nil {
		t.Fatalf("expected trashed file: %v", err)
	}
	info, err := os.ReadFile(filepath.Join(base, "info", "track.wv.trashinfo"))
	if err != nil {
		t.Fatalf("read trashinfo: %v", err)
	}
	if !strings.Contains(string(info), "[Trash Info]") || !strings.Contains(string(info), "Path=") {
		t.Fatalf("malformed trashinfo: %q", info)
	}
}

func TestTrashDeduplicatesNames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "Trash")
	dir := t.TempDir()
	tr := NewAt(base)

	for i := 0; i < 2; i++ {
		src := filepath.Join(dir, "track.wv")
		if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
			t.Fatalf("write src: %v", err)
		}
		if err := tr.Trash(src); err != nil {
			t.Fatalf("Trash #%d: %v", i, err)
		}
	}

	if _, err := os.Stat(filepath.Join(base, "files", "track.wv")); err != nil {
		t.Fatalf("expected first trashed file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "files", "track (2).wv")); err != nil {
		t.Fatalf("expected deduplicated second file: %v", err)
	}
}

func TestTrashMissingFile(t *testing.T) {
	tr := NewAt(filepath.Join(t.TempDir(), "Trash"))
	if err := tr.Trash(filepath.Join(t.TempDir(), "missing.wv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
