package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"flacsmith/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func renderHistoryTable(records []history.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		detail := rec.ErrorMessage
		if len(detail) > 60 {
			detail = detail[:57] + "..."
		}
		rows = append(rows, []string{
			rec.FinishedAt.Local().Format(time.DateTime),
			filepath.Base(rec.SourcePath),
			rec.Format,
			rec.Strategy,
			strconv.Itoa(rec.CompressionLevel),
			string(rec.Status),
			detail,
		})
	}
	return renderTable(
		[]string{"Finished", "Source", "Format", "Strategy", "Level", "Status", "Detail"},
		rows,
		[]int{5},
	)
}
