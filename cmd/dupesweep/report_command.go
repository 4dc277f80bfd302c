package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dupesweep/internal/journal"
)

func newReportCommand() *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:         "report",
		Short:       "Show journaled runs and their decisions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return err
			}
			store, err := journal.Open(dir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				groups, err := store.ListGroups(cmd.Context(), runID)
				if err != nil {
					return fmt.Errorf("list groups: %w", err)
				}
				if len(groups) == 0 {
					fmt.Fprintf(out, "No journal entries for run %s\n", runID)
					return nil
				}
				fmt.Fprintln(out, renderGroupTable(groups))
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "Journal is empty. Run `dupesweep run` first.")
				return nil
			}
			fmt.Fprintln(out, renderRunTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the group decisions of one run")

	return cmd
}

func renderRunTable(runs []journal.Run) string {
	headers := []string{"Run", "Started", "Mode", "Processed", "Skipped", "Deleted", "Reclaimed MB", "Errors"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runMode(run),
			strconv.Itoa(run.Summary.GroupsProcessed),
			strconv.Itoa(run.Summary.GroupsSkipped),
			strconv.Itoa(run.Summary.AssetsDeleted),
			strconv.FormatFloat(float64(run.Summary.BytesReclaimed)/(1024*1024), 'f', 2, 64),
			strconv.Itoa(run.Summary.Errors),
		})
	}
	aligns := []columnAlignment{
		alignLeft, alignLeft, alignLeft,
		alignRight, alignRight, alignRight, alignRight, alignRight,
	}
	return renderTable(headers, rows, aligns)
}

func renderGroupTable(groups []journal.GroupRecord) string {
	headers := []string{"#", "State", "Reason", "Winner", "Losers", "Note"}
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{
			strconv.Itoa(group.Seq),
			group.State,
			group.Reason,
			group.WinnerID,
			strings.Join(group.LoserIDs, "\n"),
			group.Error,
		})
	}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
	return renderTable(headers, rows, aligns)
}

func runMode(run journal.Run) string {
	switch {
	case run.DryRun:
		return "dry-run"
	case run.Permanent:
		return "permanent"
	default:
		return "trash"
	}
}
