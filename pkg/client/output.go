package client

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintTable writes rows under upper-cased column headers, padding each
// column to its widest cell and separating columns with two spaces.
func PrintTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = DisplayWidth(c)
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row) && DisplayWidth(row[i]) > widths[i] {
				widths[i] = DisplayWidth(row[i])
			}
		}
	}

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
	}
	writeTableLine(w, header, widths)
	for _, row := range rows {
		writeTableLine(w, row, widths)
	}
}

func writeTableLine(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", width-DisplayWidth(cell)+2))
		}
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// DisplayWidth is the terminal cell width of s; East Asian wide and
// fullwidth runes (CJK) count as two.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// PrintDetail writes key: value lines in key order with aligned values.
func PrintDetail(w io.Writer, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	maxLen := 0
	for k := range fields {
		keys = append(keys, k)
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		padding := strings.Repeat(" ", maxLen-len(k))
		_, _ = fmt.Fprintf(w, "%s:%s  %s\n", k, padding, FormatValue(fields[k]))
	}
}

// FormatValue renders a decoded JSON value as a single table cell.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ExtractField returns record[key] formatted as a cell, or "" when absent.
func ExtractField(record map[string]any, key string) string {
	return FormatValue(record[key])
}

// ExtractRows projects records onto columns. Missing fields become "".
func ExtractRows(records []map[string]any, columns []string) [][]string {
	if len(records) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = ExtractField(rec, col)
		}
		rows = append(rows, row)
	}
	return rows
}
