package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// JSONExporter serializes a RowSet as a JSON array of objects, one object
// per row. Object keys follow the query's column order (a plain
// map[string]any would lose it), and row order matches the CSV path.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes the row set to w as a JSON array. An empty set yields [].
func (e *JSONExporter) Export(ctx context.Context, rs *RowSet, w io.Writer) error {
	if rs.Len() == 0 {
		if _, err := w.Write([]byte("[]")); err != nil {
			return NewExportError("json", 0, err)
		}
		return nil
	}

	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, values := range rs.Rows {
		if err := ctx.Err(); err != nil {
			return NewExportError("json", rs.Len(), err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		if e.Pretty {
			buf.WriteString("\n  ")
		}
		if err := encodeRow(&buf, rs.Columns, values); err != nil {
			return NewExportError("json", rs.Len(), err)
		}
	}

	if e.Pretty {
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return NewExportError("json", rs.Len(), err)
	}
	return nil
}

// encodeRow writes one row as a JSON object with keys in column order.
func encodeRow(buf *bytes.Buffer, columns []string, values []any) error {
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(values[i])
		if err != nil {
			return err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return nil
}
