package transcode

import (
	"errors"
	"os"

	"flacsmith/internal/config"
	"flacsmith/internal/logging"
)

// applyPostAction disposes of the original file after a successful encode.
// The output file is never touched here.
func (j *Job) applyPostAction() error {
	target := j.postActionTarget()

	switch j.opts.PostAction {
	case config.PostActionKeep, "":
		return nil
	case config.PostActionDelete:
		return removeOriginal(target)
	case config.PostActionTrash:
		if j.opts.Trasher == nil {
			return errors.New("trash requested but no trash facility is available")
		}
		return j.opts.Trasher.Trash(target)
	case config.PostActionPrompt:
		if j.opts.Prompt == nil {
			return errors.New("prompt requested but no prompt handler is available")
		}
		remove, err := j.opts.Prompt(target)
		if err != nil {
			return err
		}
		if !remove {
			j.logger.Info("keeping original", logging.String("path", target))
			return nil
		}
		return removeOriginal(target)
	}
	return errors.New("unknown post-action " + string(j.opts.PostAction))
}

// removeOriginal tolerates a file that is already gone. The conversion
// succeeded; a missing original just means there is nothing to dispose of.
func removeOriginal(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
