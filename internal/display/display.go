// Package display renders CLI output tables for the status and history
// commands.
package display

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"modelgate/internal/runlog"
)

// SlotStatus describes the current best-model slot for `modelgate status`.
type SlotStatus struct {
	ModelKey  string
	MetricKey string
	Exists    bool
	F1Score   float64
	Version   string
	Size      int64
}

// StatusTable renders the best-slot status.
func StatusTable(s SlotStatus) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"FIELD", "VALUE"})
	w.AppendRow(table.Row{"model key", s.ModelKey})
	w.AppendRow(table.Row{"metric key", s.MetricKey})
	if !s.Exists {
		w.AppendRow(table.Row{"deployed", "no (fresh slot)"})
		return w.Render()
	}
	w.AppendRow(table.Row{"deployed", "yes"})
	w.AppendRow(table.Row{"f1_score", fmt.Sprintf("%.4f", s.F1Score)})
	w.AppendRow(table.Row{"size", fmt.Sprintf("%d bytes", s.Size)})
	if s.Version != "" {
		w.AppendRow(table.Row{"version", s.Version})
	}
	return w.Render()
}

// HistoryTable renders recorded evaluation runs, newest first.
func HistoryTable(entries []runlog.Entry) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"WHEN", "TRAINED", "BEST", "DIFF", "ACCEPTED", "RUN ID"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, e := range entries {
		best := "—"
		if e.BestScore != nil {
			best = fmt.Sprintf("%.4f", *e.BestScore)
		}
		accepted := "no"
		if e.Accepted {
			accepted = "yes"
		}
		w.AppendRow(table.Row{
			e.CreatedAt.Format(time.DateTime),
			fmt.Sprintf("%.4f", e.TrainedScore),
			best,
			fmt.Sprintf("%+.4f", e.Delta),
			accepted,
			e.ID,
		})
	}
	return w.Render()
}
