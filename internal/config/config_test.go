package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Convert.CompressionLevel != 8 {
		t.Fatalf("expected default compression level 8, got %d", cfg.Convert.CompressionLevel)
	}
	if cfg.Convert.Jobs != 1 {
		t.Fatalf("expected default jobs 1, got %d", cfg.Convert.Jobs)
	}
	if !cfg.Convert.CopyTags {
		t.Fatal("expected tag copying on by default")
	}
	if cfg.ConvertPostAction() != PostActionKeep {
		t.Fatalf("expected keep post-action, got %q", cfg.Convert.PostAction)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
scratch_dir = "` + filepath.Join(dir, "scratch") + `"

[convert]
compression_level = 3
post_action = "Delete"

[logging]
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Convert.CompressionLevel != 3 {
		t.Fatalf("expected compression 3, got %d", cfg.Convert.CompressionLevel)
	}
	if cfg.ConvertPostAction() != PostActionDelete {
		t.Fatalf("expected post_action normalized to delete, got %q", cfg.Convert.PostAction)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadCompression(t *testing.T) {
	cfg := Default()
	cfg.Convert.CompressionLevel = 9
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "compression_level") {
		t.Fatalf("expected compression_level error, got %v", err)
	}
}

func TestValidateRejectsZeroJobs(t *testing.T) {
	cfg := Default()
	cfg.Convert.Jobs = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "jobs") {
		t.Fatalf("expected jobs error, got %v", err)
	}
}

func TestValidateRejectsPromptWithConcurrency(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("needs at least two CPUs to configure two jobs")
	}
	cfg := Default()
	cfg.Convert.Jobs = 2
	cfg.Convert.PostAction = string(PostActionPrompt)
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "prompt") {
		t.Fatalf("expected prompt/jobs conflict error, got %v", err)
	}
}

func TestValidateRejectsUnknownPostAction(t *testing.T) {
	cfg := Default()
	cfg.Convert.PostAction = "shred"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "post_action") {
		t.Fatalf("expected post_action error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[convert]") {
		t.Fatal("expected sample to document the convert section")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("expected %q, got %q", filepath.Join(home, "music"), got)
	}
}
