package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Validate ensures the configuration is usable. Violations here correspond to
// the run-level configuration errors that abort a batch before any job starts.
func (c *Config) Validate() error {
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.CompressionLevel < 0 || c.Convert.CompressionLevel > 8 {
		return errors.New("convert.compression_level must be between 0 and 8")
	}
	if c.Convert.Jobs < 1 {
		return errors.New("convert.jobs must be at least 1")
	}
	if c.Convert.Jobs > runtime.NumCPU() {
		return fmt.Errorf("convert.jobs must not exceed the %d available CPUs", runtime.NumCPU())
	}
	switch PostAction(c.Convert.PostAction) {
	case PostActionKeep, PostActionDelete, PostActionTrash, PostActionPrompt:
	default:
		return fmt.Errorf("convert.post_action must be one of keep, delete, trash, prompt (got %q)", c.Convert.PostAction)
	}
	// Prompting against several interleaved progress streams is not a
	// well-defined interaction, so the combination is rejected here rather
	// than degraded at runtime.
	if PostAction(c.Convert.PostAction) == PostActionPrompt && c.Convert.Jobs > 1 {
		return errors.New("convert.post_action = \"prompt\" requires convert.jobs = 1")
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
