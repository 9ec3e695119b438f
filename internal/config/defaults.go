package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default returns the repository defaults applied before a config file is
// decoded over them.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultCacheSubdir("scratch"),
			LogDir:     defaultCacheSubdir("logs"),
		},
		Convert: Convert{
			CompressionLevel: 8,
			Jobs:             1,
			Overwrite:        false,
			CopyTags:         true,
			PostAction:       string(PostActionKeep),
		},
		History: History{
			Enabled: true,
			Path:    defaultCacheSubdir("history.db"),
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultCacheSubdir(name string) string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "flacsmith", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("~", ".cache", "flacsmith", name)
	}
	return filepath.Join(home, ".cache", "flacsmith", name)
}
