package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"textbook-admin/pkg/client"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the build version and commit of this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) != "json" {
				_, err := fmt.Fprintf(out, "%s version %s (commit: %s)\n", cmd.Root().Name(), version, commit)
				return err
			}
			return client.PrintJSON(out, struct {
				Version string `json:"version"`
				Commit  string `json:"commit"`
			}{version, commit})
		},
	}
}

// getOutputFormat reads --output from the root for commands that do not
// hold the app.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}
