package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"textbook-admin/internal/export"
	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		file string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export every row of a resource as a CSV file",
		Long: "Fetches all pages of a resource and writes them as UTF-8 CSV with a byte order mark.\n" +
			"Resources: " + strings.Join(export.Resources(), ", "),
		Example: `  textbook export textbooks
  textbook export orders --file - > orders.csv`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: export.Resources(),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := export.Fetch(cmd.Context(), a.client, args[0])
			if err != nil {
				return err
			}
			t, err := export.FromRecords(items)
			if errors.Is(err, export.ErrNoData) {
				a.notifier(cmd).Show(err.Error(), ui.MessageWarning)
				return nil
			}
			if err != nil {
				return err
			}

			if file == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), t)
			}
			if file == "" {
				file = filepath.Join(dir, export.Filename(args[0], time.Now()))
			}
			if err := writeFile(file, func(w io.Writer) error { return export.WriteCSV(w, t) }); err != nil {
				return err
			}

			if a.output == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), map[string]any{
					"resource": args[0],
					"rows":     len(t.Rows),
					"path":     file,
				})
			}
			if a.quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), file)
				return nil
			}
			a.notifier(cmd).Show(fmt.Sprintf("已导出 %d 条记录到 %s", len(t.Rows), file), ui.MessageSuccess)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output path (- for stdout; default <resource>_<ms>.csv)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the default file name")
	return cmd
}

// writeFile writes through a temporary file so a failed export leaves no
// partial CSV behind.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
