package report

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTrail writes the records of trail to w as a table
func RenderTrail(w io.Writer, trail *Trail) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Step", "Status", "Content"})
	for i, line := range trail.Lines() {
		name := strings.Repeat("  ", line.Depth) + strings.Replace(line.Name, "\n", " ", -1)
		t.AppendRow(table.Row{i + 1, name, line.Status, line.Content})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
