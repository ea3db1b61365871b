package export

import (
	"database/sql"
)

// RowSet is the eager, in-memory materialization of one query's result:
// the column names in the order the query returned them, and every row's
// values in the same order. It lives for a single request and is discarded
// once the response is written.
type RowSet struct {
	Columns []string
	Rows    [][]any
}

// ReadRows drains rows into a RowSet and surfaces any iteration error.
// Driver []byte values are normalized to string so that both serializers
// see the same representation. The caller owns closing rows.
func ReadRows(rows *sql.Rows) (*RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &RowSet{Columns: columns}

	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}

		rs.Rows = append(rs.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rs, nil
}

// Len returns the number of rows in the set.
func (rs *RowSet) Len() int {
	return len(rs.Rows)
}
