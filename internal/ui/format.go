package ui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// FormatDate renders a backend date as a zh-CN short date (2024/1/15).
// Empty input renders "-"; input in no known layout is returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
		}
	}
	return s
}

// FormatMoney renders an amount as ¥ with two decimals. Values that are not
// numbers render as ¥NaN.
func FormatMoney(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return "¥NaN"
	}
	return "¥" + strconv.FormatFloat(f, 'f', 2, 64)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
