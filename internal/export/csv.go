// Package export turns list payloads from the backend into CSV files that
// open cleanly in spreadsheet tools.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"textbook-admin/pkg/client"
)

// ErrNoData is returned when there is nothing to export. Callers show a
// warning and write no file.
var ErrNoData = errors.New("没有数据可导出")

// BOM marks the file as UTF-8 for spreadsheet tools.
const BOM = "\uFEFF"

// Table is a header plus rows of cells, in output order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// FromRecords builds a table from JSON objects. The header is the first
// object's keys in document order; later objects are projected onto it.
func FromRecords(items []json.RawMessage) (Table, error) {
	if len(items) == 0 {
		return Table{}, ErrNoData
	}
	columns, err := objectKeys(items[0])
	if err != nil {
		return Table{}, err
	}
	t := Table{Columns: columns, Rows: make([][]string, 0, len(items))}
	for i, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return Table{}, fmt.Errorf("decode row %d: %w", i, err)
		}
		t.Rows = append(t.Rows, client.ExtractRows([]map[string]any{rec}, columns)[0])
	}
	return t, nil
}

// FromJSON builds a table from a JSON array of objects.
func FromJSON(data []byte) (Table, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return Table{}, fmt.Errorf("decode rows: %w", err)
	}
	return FromRecords(items)
}

func objectKeys(obj json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("read header row: expected object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read header row: %w", err)
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("read header row: %w", err)
		}
	}
	return keys, nil
}

// WriteCSV writes the BOM, the header line and one line per row, separated
// by "\n".
func WriteCSV(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		return ErrNoData
	}
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename returns "<name>_<epoch-ms>.csv".
func Filename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d.csv", name, now.UnixMilli())
}
