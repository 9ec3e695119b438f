package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"flacsmith/internal/config"
	"flacsmith/internal/deps"
	"flacsmith/internal/format"
	"flacsmith/internal/history"
	"flacsmith/internal/logging"
	"flacsmith/internal/runlock"
	"flacsmith/internal/scheduler"
	"flacsmith/internal/transcode"
	"flacsmith/internal/trash"
)

func newConvertCommand(cctx *commandContext) *cobra.Command {
	var (
		compression int
		jobs        int
		overwrite   bool
		noTags      bool
		useFallback bool
		postAction  string
	)

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert lossless audio files to FLAC",
		Long: "Convert converts each listed file into a FLAC next to the original.\n" +
			"Supported inputs: " + strings.Join(format.Extensions(), ", ") + ".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("compression") {
				cfg.Convert.CompressionLevel = compression
			}
			if flags.Changed("jobs") {
				cfg.Convert.Jobs = jobs
			}
			if flags.Changed("overwrite") {
				cfg.Convert.Overwrite = overwrite
			}
			if flags.Changed("fallback") {
				cfg.Convert.UseFallbackDecoder = useFallback
			}
			if flags.Changed("post-action") {
				cfg.Convert.PostAction = strings.ToLower(strings.TrimSpace(postAction))
			}
			if noTags {
				cfg.Convert.CopyTags = false
			}

			// Flag overrides can produce combinations the config file alone
			// never would, so the merged result is validated again.
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runConvert(cmd, cfg, args)
		},
	}

	cmd.Flags().IntVarP(&compression, "compression", "l", 8, "FLAC compression level (0-8)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of files converted concurrently")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite existing outputs and backups")
	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Skip copying metadata into the output")
	cmd.Flags().BoolVar(&useFallback, "fallback", false, "Decode through the fallback decoder")
	cmd.Flags().StringVar(&postAction, "post-action", "", "What to do with originals: keep, delete, trash, or prompt")

	return cmd
}

func runConvert(cmd *cobra.Command, cfg *config.Config, args []string) error {
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve every input before any work starts. One unsupported or missing
	// file rejects the whole batch.
	paths := make([]string, 0, len(args))
	specs := make([]format.Spec, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("inspect input %q: %w", arg, err)
		}
		spec, err := format.Resolve(filepath.Ext(path))
		if err != nil {
			return err
		}
		paths = append(paths, path)
		specs = append(specs, spec)
	}

	required := deps.ForFormats(specs, cfg.Convert.UseFallbackDecoder, cfg.Convert.CopyTags)
	if err := deps.Verify(required); err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	lock, err := runlock.Acquire(cfg.Paths.ScratchDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	opts := transcode.Options{
		CompressionLevel:   cfg.Convert.CompressionLevel,
		Overwrite:          cfg.Convert.Overwrite,
		CopyTags:           cfg.Convert.CopyTags,
		UseFallbackDecoder: cfg.Convert.UseFallbackDecoder,
		PostAction:         cfg.ConvertPostAction(),
		ScratchDir:         cfg.Paths.ScratchDir,
		Logger:             logger,
	}

	switch cfg.ConvertPostAction() {
	case config.PostActionTrash:
		bin, err := trash.New()
		if err != nil {
			return fmt.Errorf("locate trash directory: %w", err)
		}
		opts.Trasher = bin
	case config.PostActionPrompt:
		opts.Prompt = stdinPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history store unavailable", logging.Error(err))
		} else {
			opts.History = store
			defer func() { _ = store.Close() }()
		}
	}

	// Build every job up front so per-file configuration problems surface
	// before the first encoder runs.
	batch := make([]*transcode.Job, 0, len(paths))
	for _, path := range paths {
		job, err := transcode.NewJob(path, opts)
		if err != nil {
			return err
		}
		batch = append(batch, job)
	}

	pool, err := scheduler.New(ctx, cfg.Convert.Jobs, logger)
	if err != nil {
		return err
	}
	for _, job := range batch {
		job := job
		if err := pool.Submit(func(ctx context.Context) error {
			return job.Run(ctx)
		}); err != nil {
			break
		}
	}
	runErr := pool.JoinAll()

	fmt.Fprintln(cmd.OutOrStdout(), renderConvertSummary(batch))
	return runErr
}

func renderConvertSummary(batch []*transcode.Job) string {
	rows := make([][]string, 0, len(batch))
	for _, job := range batch {
		rows = append(rows, []string{
			filepath.Base(job.Input.Path),
			job.Spec.Name,
			string(job.Strategy),
			string(job.State()),
		})
	}
	return renderTable([]string{"File", "Format", "Strategy", "Result"}, rows, nil)
}
