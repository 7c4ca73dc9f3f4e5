package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"textbook-admin/internal/export"
	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

var outputFormats = []string{"table", "json", "csv"}

func validateOutputFormat(output string) error {
	for _, f := range outputFormats {
		if output == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q: use %s", output, strings.Join(outputFormats, ", "))
}

func validateHostURL(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return fmt.Errorf("invalid host: host URL cannot be empty")
	}
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid host %q: scheme must be http or https", host)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid host %q: missing host", host)
	}
	if strings.TrimRight(u.Path, "/") == client.APIPrefix {
		return fmt.Errorf("invalid host %q: leave out %s, it is added to every request", host, client.APIPrefix)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("invalid host %q: host must not include a path", host)
	}
	return nil
}

// view is how a kind of record is shown: its table columns, per-column
// cell formatters and the field printed in quiet mode.
type view struct {
	columns []string
	format  map[string]func(any) string
	id      string
}

func (v view) rows(records []map[string]any) [][]string {
	rows := client.ExtractRows(records, v.columns)
	for i, col := range v.columns {
		f := v.format[col]
		if f == nil {
			continue
		}
		for r := range rows {
			rows[r][i] = f(records[r][col])
		}
	}
	return rows
}

func formatDate(v any) string {
	return ui.FormatDate(client.FormatValue(v))
}

// printList renders a list payload, bare array or page, in the selected
// output format.
func (a *app) printList(cmd *cobra.Command, resp *client.Response, v view) error {
	out := cmd.OutOrStdout()
	switch a.output {
	case "json":
		return printData(out, resp)
	case "csv":
		items, err := export.Items(resp)
		if err != nil {
			return err
		}
		return a.writeCSV(cmd, items)
	}

	records, err := resp.Records()
	if err != nil {
		return err
	}
	if a.quiet {
		for _, rec := range records {
			_, _ = fmt.Fprintln(out, client.ExtractField(rec, v.id))
		}
		return nil
	}
	if len(records) == 0 {
		a.notifier(cmd).Show("暂无数据", ui.MessageInfo)
		return nil
	}
	client.PrintTable(out, v.columns, v.rows(records))
	if page, err := resp.Page(); err == nil && page.Pagination.Pages > 1 {
		p := page.Pagination
		_, _ = fmt.Fprintf(out, "\n第 %d/%d 页，共 %d 条\n", p.Page, p.Pages, p.Total)
	}
	return nil
}

// printRecord renders a single object payload.
func (a *app) printRecord(cmd *cobra.Command, resp *client.Response, v view) error {
	out := cmd.OutOrStdout()
	switch a.output {
	case "json":
		return printData(out, resp)
	case "csv":
		if len(resp.Data) == 0 || string(resp.Data) == "null" {
			return a.writeCSV(cmd, nil)
		}
		return a.writeCSV(cmd, []json.RawMessage{resp.Data})
	}

	fields, err := decodeObject(resp.Data)
	if err != nil {
		return err
	}
	if a.quiet {
		_, _ = fmt.Fprintln(out, client.ExtractField(fields, v.id))
		return nil
	}
	if len(fields) == 0 {
		a.notifier(cmd).Show("暂无数据", ui.MessageInfo)
		return nil
	}
	for key, f := range v.format {
		if val, ok := fields[key]; ok {
			fields[key] = f(val)
		}
	}
	client.PrintDetail(out, fields)
	return nil
}

// printResult reports a successful write: the envelope in JSON mode, the
// new record's ID in quiet mode, a success notice otherwise.
func (a *app) printResult(cmd *cobra.Command, resp *client.Response, fallback, idField string) error {
	out := cmd.OutOrStdout()
	if a.output == "json" {
		return client.PrintJSON(out, resp)
	}
	if a.quiet {
		if fields, err := decodeObject(resp.Data); err == nil && idField != "" {
			if id := client.ExtractField(fields, idField); id != "" {
				_, _ = fmt.Fprintln(out, id)
			}
		}
		return nil
	}
	msg := resp.Message
	if msg == "" || msg == "success" {
		msg = fallback
	}
	a.notifier(cmd).Show(msg, ui.MessageSuccess)
	return nil
}

func (a *app) writeCSV(cmd *cobra.Command, items []json.RawMessage) error {
	t, err := export.FromRecords(items)
	if errors.Is(err, export.ErrNoData) {
		a.notifier(cmd).Show(export.ErrNoData.Error(), ui.MessageWarning)
		return nil
	}
	if err != nil {
		return err
	}
	return export.WriteCSV(cmd.OutOrStdout(), t)
}

func printData(w io.Writer, resp *client.Response) error {
	if len(resp.Data) == 0 {
		return client.PrintJSON(w, nil)
	}
	return client.PrintJSON(w, resp.Data)
}

func decodeObject(data json.RawMessage) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
