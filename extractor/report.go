package extractor

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var statusColors = map[Status]text.Colors{
	Scraped: {text.FgGreen},
	Skipped: {text.FgHiBlack},
	Empty:   {text.FgYellow},
	Failed:  {text.FgRed},
}

// RenderReport prints one row per product name followed by per-status totals
func RenderReport(w io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Product", "Status", "Options", "Detail"})

	for _, r := range results {
		detail := r.Path
		if r.Err != nil {
			detail = r.Err.Error()
		}
		t.AppendRow(table.Row{r.Name, statusColors[r.Status].Sprint(r.Status.String()), r.Products, detail})
	}

	counts := Summarize(results)
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d products", len(results)),
		fmt.Sprintf("%d scraped, %d skipped", counts[Scraped], counts[Skipped]),
		"",
		fmt.Sprintf("%d empty, %d failed", counts[Empty], counts[Failed]),
	})
	t.Render()
}
