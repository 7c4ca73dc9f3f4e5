package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_Empty(t *testing.T) {
	_, err := FromJSON([]byte(`[]`))
	require.ErrorIs(t, err, ErrNoData)

	_, err = FromRecords(nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestWriteCSV_SingleRow(t *testing.T) {
	table, err := FromJSON([]byte(`[{"a":1,"b":2}]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, BOM))
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, BOM), "\n"), "\n")
	assert.Equal(t, []string{"a,b", "1,2"}, lines)
}

func TestFromJSON_HeaderFollowsFirstRowOrder(t *testing.T) {
	table, err := FromJSON([]byte(`[
		{"textbook_name":"数据结构","isbn":"ISBN1234567890","price":45.5},
		{"isbn":"ISBN0000000001","textbook_name":"操作系统","extra":"ignored"},
		{"textbook_name":"编译原理"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"textbook_name", "isbn", "price"}, table.Columns)
	assert.Equal(t, []string{"数据结构", "ISBN1234567890", "45.5"}, table.Rows[0])
	assert.Equal(t, []string{"操作系统", "ISBN0000000001", ""}, table.Rows[1])
	assert.Equal(t, []string{"编译原理", "", ""}, table.Rows[2])
}

func TestFromJSON_NullAndNested(t *testing.T) {
	table, err := FromJSON([]byte(`[{"remarks":null,"tags":["a","b"]}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"", `["a","b"]`}, table.Rows[0])
}

func TestFromJSON_NotObjects(t *testing.T) {
	_, err := FromJSON([]byte(`[1,2]`))
	require.Error(t, err)

	_, err = FromJSON([]byte(`{"a":1}`))
	require.Error(t, err)
}

func TestWriteCSV_QuotesCommas(t *testing.T) {
	table, err := FromRecords([]json.RawMessage{json.RawMessage(`{"remarks":"a,b"}`)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, BOM+"remarks\n\"a,b\"\n", buf.String())
}

func TestWriteCSV_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, WriteCSV(&buf, Table{Columns: []string{"a"}}), ErrNoData)
	assert.Empty(t, buf.String())
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "textbooks_1700000000123.csv", Filename("textbooks", now))
}
