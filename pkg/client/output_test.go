package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable_Basic(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"isbn", "name"}, [][]string{
		{"ISBN1234567890", "数据结构"},
		{"ISBN0987654321", "操作系统"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 3, "expected header + 2 data rows")
	assert.Contains(t, lines[0], "ISBN")
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "数据结构")
	assert.Contains(t, lines[2], "操作系统")
}

func TestPrintTable_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{}, [][]string{{"a"}})
	assert.Empty(t, buf.String(), "empty columns should produce no output")
}

func TestPrintTable_ColumnSeparator(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"a", "b"}, [][]string{{"1", "2"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "A  B", lines[0])
	assert.Equal(t, "1  2", lines[1])
}

func TestPrintTable_WideRunesAlign(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"status", "n"}, [][]string{{"待审核", "1"}, {"ok", "2"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 3)
	// "待审核" occupies 6 cells, so "ok" is padded with 4 extra spaces.
	assert.Equal(t, "ok"+strings.Repeat(" ", 6)+"2", lines[2])
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"数据结构", 8},
		{"¥45.00", 6},
		{"ＡＢ", 4},
		{"第 1/2 页", 9},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, DisplayWidth(tt.in), "DisplayWidth(%q)", tt.in)
	}
}

func TestPrintJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]string{"status": "已审核"}))

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "已审核", parsed["status"])
	assert.Contains(t, buf.String(), "\n  ")
}

func TestPrintDetail_SortedAndPadded(t *testing.T) {
	var buf bytes.Buffer
	PrintDetail(&buf, map[string]any{
		"textbook_name": "编译原理",
		"id":            7.0,
		"tags":          []any{"a", "b"},
		"remarks":       nil,
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id:"))
	assert.Contains(t, lines[0], "id:"+strings.Repeat(" ", 11)+"  7")
	assert.Equal(t, "remarks:       ", lines[1][:15])
	assert.NotContains(t, buf.String(), "<nil>")
	assert.Contains(t, lines[2], `["a","b"]`)
	assert.Contains(t, lines[3], "编译原理")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"whole float", 42.0, "42"},
		{"fraction", 45.5, "45.5"},
		{"large float", 1500000.0, "1500000"},
		{"bool", true, "true"},
		{"map", map[string]any{"k": "v"}, `{"k":"v"}`},
		{"slice", []any{1.0, 2.0}, `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestExtractRows(t *testing.T) {
	records := []map[string]any{
		{"order_no": "PO001", "order_status": "待审核"},
		{"order_no": "PO002"},
	}
	rows := ExtractRows(records, []string{"order_no", "order_status"})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"PO001", "待审核"}, rows[0])
	assert.Equal(t, []string{"PO002", ""}, rows[1], "missing columns should produce empty strings")
	assert.Nil(t, ExtractRows(nil, []string{"id"}))
}
