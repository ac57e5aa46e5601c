package verify

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sells-group/placelink-cli/internal/model"
)

// RenderSummary writes the end-of-run tally as a table.
func RenderSummary(w io.Writer, s *Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Run", s.RunID})
	tw.AppendRows([]table.Row{
		{"Total", s.Total},
		{"Verified", s.Verified},
		{"Not found", s.NotFound},
		{"Errors", s.Errors},
		{"Skipped by filter", s.Skipped},
		{"Duration", s.Duration.Round(time.Second)},
	})
	tw.Render()
}

// RenderProgress writes a saved progress state as a table, for the status
// command.
func RenderProgress(w io.Writer, st *model.ProgressState) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Run", st.RunID})
	tw.AppendRows([]table.Row{
		{"Total", st.Total},
		{"Processed", st.Processed},
		{"Verified", st.Verified},
		{"Not found", st.NotFound},
		{"Errors", st.Errors},
		{"Skipped by filter", st.Skipped},
		{"Last index", st.LastProcessedIndex},
		{"Started", st.StartedAt.Format(time.RFC3339)},
		{"Updated", st.UpdatedAt.Format(time.RFC3339)},
	})
	tw.Render()
}
