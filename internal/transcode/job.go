package transcode

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"flacsmith/internal/config"
	"flacsmith/internal/format"
	"flacsmith/internal/history"
	"flacsmith/internal/logging"
)

// State is the pipeline position of a job.
type State string

const (
	StateValidated  State = "validated"
	StateDecoding   State = "decoding"
	StateEncoding   State = "encoding"
	StateTagging    State = "tagging"
	StateSkipped    State = "skipped"
	StatePostAction State = "post-action"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// InputFile is one resolved batch input. Immutable once built.
type InputFile struct {
	Path string
	Base string // path without the extension
	Ext  string // case-folded, without the dot
}

// NewInputFile derives the base name and canonical extension from path.
func NewInputFile(path string) InputFile {
	ext := filepath.Ext(path)
	return InputFile{
		Path: path,
		Base: strings.TrimSuffix(path, ext),
		Ext:  strings.ToLower(strings.TrimPrefix(ext, ".")),
	}
}

// Trasher hands an original file to the external trash facility.
type Trasher interface {
	Trash(path string) error
}

// PromptFunc asks the operator whether to delete the original. It is only
// invoked when pool capacity is 1; configuration validation guarantees that.
type PromptFunc func(path string) (bool, error)

// Options carries the immutable per-run configuration into every job.
type Options struct {
	CompressionLevel   int
	Overwrite          bool
	CopyTags           bool
	UseFallbackDecoder bool
	PostAction         config.PostAction
	ScratchDir         string

	Trasher Trasher
	Prompt  PromptFunc
	Logger  *slog.Logger
	History *history.Store
}

// Job owns one input file, its resolved format spec, and any temporary
// artifacts it creates along the way.
type Job struct {
	ID         string
	Input      InputFile
	Spec       format.Spec
	Strategy   format.Strategy
	OutputPath string

	// copyTags is the effective setting after the registry applied format
	// and fallback constraints to the caller's preference.
	copyTags bool

	opts   Options
	logger *slog.Logger
	state  State

	tempFiles []string
}

// NewJob resolves path against the format registry and builds a job ready
// for Run. Resolution fails for unsupported extensions and for strategy
// requests the registry rejects.
func NewJob(path string, opts Options) (*Job, error) {
	input := NewInputFile(path)
	spec, err := format.Resolve(input.Ext)
	if err != nil {
		return nil, err
	}
	strategy, tagsOK, err := spec.Plan(opts.UseFallbackDecoder)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:         uuid.NewString(),
		Input:      input,
		Spec:       spec,
		Strategy:   strategy,
		OutputPath: input.Base + ".flac",
		copyTags:   opts.CopyTags && tagsOK,
		opts:       opts,
		state:      StateValidated,
	}
	job.logger = logging.NewComponentLogger(opts.Logger, "transcode").With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldInput, input.Path),
	)
	return job, nil
}

// State returns the job's current pipeline state.
func (j *Job) State() State {
	return j.state
}

// BackupPath returns the rename target used by the in-place FLAC strategy.
func (j *Job) BackupPath() string {
	return j.Input.Base + "_old.flac"
}

// postActionTarget is the file the post-action operates on. For in-place
// re-encodes the original now lives under the backup name.
func (j *Job) postActionTarget() string {
	if j.Strategy == format.StrategyReencode {
		return j.BackupPath()
	}
	return j.Input.Path
}
