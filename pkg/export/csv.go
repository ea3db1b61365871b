package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVExporter serializes a RowSet to CSV.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names. An empty
	// RowSet then still produces a well-formed, header-only document.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes the row set to w in CSV format, columns in query order,
// rows in database order.
func (e *CSVExporter) Export(ctx context.Context, rs *RowSet, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(rs.Columns); err != nil {
			return NewExportError("csv", rs.Len(), err)
		}
	}

	row := make([]string, len(rs.Columns))
	for _, values := range rs.Rows {
		if err := ctx.Err(); err != nil {
			return NewExportError("csv", rs.Len(), err)
		}
		for i, v := range values {
			row[i] = formatValue(v)
		}
		if err := writer.Write(row); err != nil {
			return NewExportError("csv", rs.Len(), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError("csv", rs.Len(), err)
	}
	return nil
}

// formatValue converts a scanned database value to its CSV cell text.
// NULL becomes the empty cell.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}
