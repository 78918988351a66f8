package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/TechXTT/sqlcrud/pkg/internal/typeconv"
	"github.com/TechXTT/sqlcrud/pkg/runtime"
)

func formatNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// RenderResult writes rs as a console table followed by a row count.
func RenderResult(w io.Writer, rs *runtime.ResultSet) {
	if rs == nil {
		return
	}
	if len(rs.Rows) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader(rs.Columns)
		table.SetAutoFormatHeaders(false)
		for _, row := range rs.Rows {
			table.Append(typeconv.RenderRow(row))
		}
		table.Render()
	}
	fmt.Fprintf(w, "%d row(s)\n", len(rs.Rows))
}
