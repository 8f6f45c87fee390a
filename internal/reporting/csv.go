package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the yearly projection rows as a CSV string.
func RenderCSV(rows []ProjectionRow) string {
	var sb strings.Builder

	sb.WriteString("age,p5,p25,p50,p75,p95\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			row.Age, row.P5, row.P25, row.P50, row.P75, row.P95))
	}

	return sb.String()
}
