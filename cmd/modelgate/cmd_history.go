package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelgate/internal/display"
	"modelgate/internal/runlog"
)

var historyFlags struct {
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded promotion decisions, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "Max runs to show (0 = all)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	log, err := runlog.Open(cfg.RunLogPath)
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.List(cmd.Context(), historyFlags.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No evaluation runs recorded yet.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.HistoryTable(entries))
	return nil
}
