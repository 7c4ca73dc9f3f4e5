package ui

import (
	"regexp"
	"strconv"
	"strings"
)

// ISBNPattern is the project's ISBN convention: "ISBN" then ten digits.
var ISBNPattern = regexp.MustCompile(`^ISBN\d{10}$`)

// Rule validates one form field. Pattern is matched unanchored unless the
// expression anchors itself. A zero Min disables the minimum check.
type Rule struct {
	Field    string
	Label    string
	Required bool
	Pattern  *regexp.Regexp
	Min      float64
}

// ValidateForm applies rules in order and returns every failure message.
// Checks do not short-circuit, so one field can yield several messages.
func ValidateForm(data map[string]string, rules []Rule) []string {
	var errs []string
	for _, rule := range rules {
		value := data[rule.Field]
		if rule.Required && value == "" {
			errs = append(errs, rule.Label+"不能为空")
		}
		if rule.Pattern != nil && value != "" && !rule.Pattern.MatchString(value) {
			errs = append(errs, rule.Label+"格式不正确")
		}
		if rule.Min != 0 && value != "" {
			if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && n < rule.Min {
				errs = append(errs, rule.Label+"不能小于"+strconv.FormatFloat(rule.Min, 'f', -1, 64))
			}
		}
	}
	return errs
}

// ValidateISBN reports whether isbn matches ISBNPattern.
func ValidateISBN(isbn string) bool {
	return ISBNPattern.MatchString(isbn)
}

// TextbookRules are the checks applied before a textbook is created.
var TextbookRules = []Rule{
	{Field: "isbn", Label: "ISBN", Required: true, Pattern: ISBNPattern},
	{Field: "textbook_name", Label: "教材名称", Required: true},
	{Field: "author", Label: "作者", Required: true},
	{Field: "publisher_id", Label: "出版社", Required: true},
	{Field: "type_id", Label: "教材类型", Required: true},
	{Field: "price", Label: "价格", Required: true, Min: 0.01},
}

// OrderRules are the checks applied before a purchase order is created.
var OrderRules = []Rule{
	{Field: "textbook_id", Label: "教材", Required: true},
	{Field: "order_quantity", Label: "订购数量", Required: true, Min: 1},
}
