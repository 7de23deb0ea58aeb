package tw

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Writer represents table writer
type Writer struct {
	table.Writer
}

// New returns new configured table writer printing to stdout
func New() Writer {
	return NewTo(os.Stdout)
}

// NewTo returns new configured table writer printing to <out>
func NewTo(out io.Writer) Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Intent", WidthMax: 20},
		{Name: "Skill", WidthMax: 30},
		{Name: "Invoke via", WidthMax: 12},
		{Name: "Strategy", WidthMax: 20},
		{Name: "Threshold", WidthMax: 9, Align: text.AlignRight},
		{Name: "Keywords", WidthMax: 40},
		{Name: "Description", WidthMax: 50},
		{Name: "Path", WidthMax: 60},
		{Name: "Reason", WidthMax: 60},
		{Name: "Model", WidthMax: 30},
		{Name: "Format", WidthMax: 20},
	})

	return Writer{tw}
}

// Render renders table and resets it
func (w Writer) Render() {
	w.Writer.Render()
	w.ResetHeaders()
	w.ResetRows()
	w.ResetFooters()
}
