package reports

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Render writes an executed report as an aligned table with a bold
// title line and a row-count footer.
func Render(w io.Writer, res *Result) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(res.Report.Title))
	if res.Report.Description != "" {
		fmt.Fprintln(w, res.Report.Description)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader(res.Columns)
	// Headers are SQL column names and stay verbatim.
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range res.Rows {
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}

// RenderCatalogue writes the report catalogue as a table.
func RenderCatalogue(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Report", "Description"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, rep := range catalogue {
		table.Append([]string{color.CyanString(rep.Name), rep.Description})
	}
	table.Render()
}
