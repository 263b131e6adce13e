package pipeline

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forPelevin/bioprep/internal/types"
)

// RenderSummary formats a job report as a table. Headers render upper-case.
func RenderSummary(runID string, rep types.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("run " + runID)
	tw.AppendHeader(table.Row{"Job", "Items", "Written", "Skipped", "Failed"})
	tw.AppendRow(table.Row{
		rep.Job,
		strconv.Itoa(rep.Items),
		strconv.Itoa(rep.Written),
		strconv.Itoa(rep.Skipped),
		strconv.Itoa(rep.Failed),
	})

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= 5; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
