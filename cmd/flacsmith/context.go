package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"flacsmith/internal/config"
	"flacsmith/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// buildLogger creates the run logger on stderr, so command output on stdout
// stays pipeable. An unset format picks console for terminals and JSON
// otherwise.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logFormat := cfg.Logging.Format
	if logFormat == "" {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			logFormat = "console"
		} else {
			logFormat = "json"
		}
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: logFormat,
		Writer: os.Stderr,
	})
}
