package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flacsmith/internal/deps"
	"flacsmith/internal/format"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show external codec tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckBinaries(deps.All())

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
				}
				required := "optional"
				if !status.Optional {
					required = "required"
				}
				rows = append(rows, []string{
					status.Command,
					status.Description,
					required,
					state,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Purpose", "Need", "Status"}, rows, nil))
			return nil
		},
	}
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(format.Extensions()))
			for _, ext := range format.Extensions() {
				spec, err := format.Resolve(ext)
				if err != nil {
					return err
				}
				tagSource := "none"
				if spec.SupportsTagExtraction {
					tagSource = spec.TagBinary
				}
				rows = append(rows, []string{
					"." + spec.Ext,
					spec.Name,
					string(spec.Strategy),
					tagSource,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Extension", "Format", "Strategy", "Tag source"}, rows, nil))
			return nil
		},
	}
}
