package transcode

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"flacsmith/internal/format"
	"flacsmith/internal/history"
	"flacsmith/internal/logging"
	"flacsmith/internal/services"
	"flacsmith/internal/tags"
)

// Run executes the full pipeline for this job. The returned error is nil for
// completed conversions, including ones where the tagging stage was skipped.
func (j *Job) Run(ctx context.Context) error {
	ctx = services.WithJobID(ctx, j.ID)
	started := time.Now().UTC()

	j.logger.Info("conversion started",
		logging.String("format", j.Spec.Name),
		logging.String("strategy", string(j.Strategy)),
		logging.Int("compression", j.opts.CompressionLevel))

	err := j.run(ctx)
	j.cleanup()

	if err != nil {
		j.state = StateFailed
		j.logger.Error("conversion failed", logging.Error(err))
	} else {
		j.state = StateDone
		j.logger.Info("conversion complete",
			logging.String(logging.FieldOutput, j.OutputPath),
			logging.Duration("elapsed", time.Since(started)))
	}
	j.record(started, time.Now().UTC(), err)
	return err
}

func (j *Job) run(ctx context.Context) error {
	if err := j.validate(ctx); err != nil {
		return err
	}
	if err := j.convert(ctx); err != nil {
		return err
	}

	if j.copyTags {
		j.runTagging(ctx)
	} else {
		j.state = StateSkipped
	}

	j.state = StatePostAction
	if err := j.applyPostAction(); err != nil {
		return services.Wrap(services.ErrExternalTool, "post-action", string(j.opts.PostAction), "dispose of original", err)
	}
	return nil
}

// validate runs the pre-decode probes the format requires.
func (j *Job) validate(ctx context.Context) error {
	if j.Spec.NeedsLosslessProbe {
		if err := verifyLosslessWMA(ctx, j.Input.Path); err != nil {
			return err
		}
	}
	if j.Spec.NeedsStreamProbe {
		if err := verifyALACStream(ctx, j.Input.Path); err != nil {
			return err
		}
	}
	j.state = StateValidated
	return nil
}

func (j *Job) convert(ctx context.Context) error {
	switch j.Strategy {
	case format.StrategyDirect:
		return j.runDirect(ctx)
	case format.StrategyNativePipe:
		return j.runNativePipe(ctx)
	case format.StrategyFallbackTemp:
		return j.runFallbackTemp(ctx)
	case format.StrategyReencode:
		return j.runReencode(ctx)
	}
	return services.Wrap(services.ErrConfiguration, "convert", "", "no execution path for strategy "+string(j.Strategy), nil)
}

// runDirect hands the source straight to the encoder. WAV needs no decode
// stage at all.
func (j *Job) runDirect(ctx context.Context) error {
	j.state = StateEncoding
	ctx = services.WithStage(ctx, "encode")
	args := encoderArgs(j.OutputPath, j.opts.CompressionLevel, j.opts.Overwrite, j.Input.Path)
	_, err := runTool(ctx, format.EncoderBinary, args, "")
	return err
}

// runNativePipe streams the native decoder's stdout into the encoder's stdin.
func (j *Job) runNativePipe(ctx context.Context) error {
	dec := decoderArgs(j.Spec, j.Input.Path)
	enc := encoderArgs(j.OutputPath, j.opts.CompressionLevel, j.opts.Overwrite, stdinSource)
	return j.runPipe(ctx, j.Spec.DecoderBinary, dec, enc)
}

// runFallbackTemp decodes through the fallback decoder into a scratch WAV,
// then encodes that file. The scratch file is removed whatever happens.
func (j *Job) runFallbackTemp(ctx context.Context) error {
	if err := os.MkdirAll(j.opts.ScratchDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "decode", "", "create scratch directory", err)
	}
	scratch := filepath.Join(j.opts.ScratchDir, j.ID+".wav")
	j.tempFiles = append(j.tempFiles, scratch)

	j.state = StateDecoding
	if _, err := runTool(services.WithStage(ctx, "decode"), format.FallbackBinary, fallbackArgs(j.Input.Path, scratch), ""); err != nil {
		return err
	}

	j.state = StateEncoding
	args := encoderArgs(j.OutputPath, j.opts.CompressionLevel, j.opts.Overwrite, scratch)
	_, err := runTool(services.WithStage(ctx, "encode"), format.EncoderBinary, args, "")
	return err
}

// runReencode re-encodes a FLAC in place. The source is renamed to the backup
// name first; any failure after the rename restores it, replacing whatever
// partial output the encoder left behind.
func (j *Job) runReencode(ctx context.Context) error {
	backup := j.BackupPath()
	if _, err := os.Stat(backup); err == nil {
		if !j.opts.Overwrite {
			return services.Wrap(services.ErrConfiguration, "decode", "",
				"backup "+backup+" already exists; enable overwrite to replace it", nil)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "decode", "", "stat backup "+backup, err)
	}

	if err := os.Rename(j.Input.Path, backup); err != nil {
		return services.Wrap(services.ErrExternalTool, "decode", "", "rename source to "+backup, err)
	}

	dec := decoderArgs(j.Spec, backup)
	enc := encoderArgs(j.OutputPath, j.opts.CompressionLevel, j.opts.Overwrite, stdinSource)
	if err := j.runPipe(ctx, j.Spec.DecoderBinary, dec, enc); err != nil {
		if restoreErr := os.Rename(backup, j.Input.Path); restoreErr != nil {
			j.logger.Error("backup restore failed",
				logging.String("backup", backup), logging.Error(restoreErr))
		}
		return err
	}
	return nil
}

// runPipe starts decoder and encoder connected by a pipe and waits for both.
// Each stage's exit status is judged on its own: a decoder killed by SIGPIPE
// only died because the encoder went away first, so the encoder's failure is
// the one reported.
func (j *Job) runPipe(ctx context.Context, decBinary string, decArgs, encArgs []string) error {
	dec := exec.CommandContext(ctx, decBinary, decArgs...)
	enc := exec.CommandContext(ctx, format.EncoderBinary, encArgs...)

	pipe, err := dec.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "decode", decBinary, "create stdout pipe", err)
	}
	enc.Stdin = pipe

	var decStderr, encStderr bytes.Buffer
	dec.Stderr = &decStderr
	enc.Stderr = &encStderr

	j.state = StateDecoding
	if err := dec.Start(); err != nil {
		return toolError("decode", decBinary, err, &decStderr)
	}
	j.state = StateEncoding
	if err := enc.Start(); err != nil {
		_ = dec.Process.Kill()
		_ = dec.Wait()
		return toolError("encode", format.EncoderBinary, err, &encStderr)
	}

	decErr := dec.Wait()
	encErr := enc.Wait()

	if decErr != nil && !killedByPipe(decErr) {
		return toolError("decode", decBinary, decErr, &decStderr)
	}
	if encErr != nil {
		return toolError("encode", format.EncoderBinary, encErr, &encStderr)
	}
	if decErr != nil {
		return toolError("decode", decBinary, decErr, &decStderr)
	}
	return nil
}

// killedByPipe reports whether a process died from SIGPIPE after its reader
// exited.
func killedByPipe(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled() && status.Signal() == syscall.SIGPIPE
}

// runTagging copies source metadata into the freshly encoded FLAC. Tag
// problems never fail a conversion that produced valid audio; the stage
// downgrades to Skipped with a warning.
func (j *Job) runTagging(ctx context.Context) {
	j.state = StateTagging
	source := j.Input.Path
	if j.Strategy == format.StrategyReencode {
		source = j.BackupPath()
	}

	raw, err := exportRawTags(ctx, j.Spec, source)
	if err != nil {
		j.logger.Warn("tag export failed, skipping tag copy", logging.Error(err))
		j.state = StateSkipped
		return
	}
	set := tags.Normalize(j.Spec.TagSchema, raw)
	if len(set) == 0 {
		j.logger.Warn("no tags found in source, skipping tag copy")
		j.state = StateSkipped
		return
	}
	if err := importTags(ctx, j.OutputPath, set); err != nil {
		j.logger.Warn("tag import failed, output keeps audio only", logging.Error(err))
		j.state = StateSkipped
		return
	}
	j.logger.Info("tags copied", logging.Int("count", len(set)))
}

func (j *Job) cleanup() {
	for _, path := range j.tempFiles {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			j.logger.Warn("scratch file not removed", logging.String("path", path), logging.Error(err))
		}
	}
	j.tempFiles = nil
}

// record persists the outcome when a history store is attached. History is
// best effort and never changes the job result.
func (j *Job) record(started, finished time.Time, runErr error) {
	if j.opts.History == nil {
		return
	}
	rec := history.Record{
		ID:               j.ID,
		SourcePath:       j.Input.Path,
		OutputPath:       j.OutputPath,
		Format:           j.Input.Ext,
		Strategy:         string(j.Strategy),
		CompressionLevel: j.opts.CompressionLevel,
		Status:           history.StatusDone,
		StartedAt:        started,
		FinishedAt:       finished,
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ErrorMessage = runErr.Error()
	}
	if err := j.opts.History.Record(context.Background(), rec); err != nil {
		j.logger.Warn("history record failed", logging.Error(err))
	}
}
