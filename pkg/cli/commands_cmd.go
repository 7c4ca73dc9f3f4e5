package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"textbook-admin/pkg/client"
)

// CommandEntry is one runnable command in the `textbook commands` listing.
type CommandEntry struct {
	Path        string      `json:"path"`
	Group       string      `json:"group"`
	Aliases     []string    `json:"aliases,omitempty"`
	Summary     string      `json:"short"`
	Description string      `json:"long,omitempty"`
	Example     string      `json:"example,omitempty"`
	Args        string      `json:"args,omitempty"`
	Flags       []FlagEntry `json:"flags,omitempty"`
}

// FlagEntry describes one local flag of a CommandEntry.
type FlagEntry struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Usage     string `json:"usage,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

func (e CommandEntry) matches(group, filter string) bool {
	if group != "" && e.Group != group {
		return false
	}
	if filter == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{e.Path, e.Summary, e.Description, strings.Join(e.Aliases, " ")}, " "))
	return strings.Contains(haystack, strings.ToLower(filter))
}

func newCommandsCmd() *cobra.Command {
	var group, filter string

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List every command with its flags",
		Long: `Walks the command tree and lists each runnable command with its path,
description, flags and examples. Needs no backend.`,
		Example: `  textbook commands
  textbook commands --filter stock
  textbook commands --group orders -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := []CommandEntry{}
			for _, e := range commandEntries(cmd.Root()) {
				if e.matches(group, filter) {
					entries = append(entries, e)
				}
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == "json" {
				return client.PrintJSON(out, entries)
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				usage := strings.TrimSpace(cmd.Root().Name() + " " + e.Path + " " + e.Args)
				rows[i] = []string{usage, e.Summary}
			}
			client.PrintTable(out, []string{"command", "description"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only commands under this top-level command (e.g. orders)")
	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive match on path, aliases and descriptions")
	return cmd
}

// commandEntries flattens the tree under root to its runnable commands,
// depth first in registration order.
func commandEntries(root *cobra.Command) []CommandEntry {
	var entries []CommandEntry
	var walk func(c *cobra.Command, path []string)
	walk = func(c *cobra.Command, path []string) {
		for _, child := range c.Commands() {
			if !child.IsAvailableCommand() || child.Name() == "completion" {
				continue
			}
			childPath := append(append([]string(nil), path...), child.Name())
			if child.HasSubCommands() {
				walk(child, childPath)
				continue
			}
			_, args, _ := strings.Cut(child.Use, " ")
			entries = append(entries, CommandEntry{
				Path:        strings.Join(childPath, " "),
				Group:       childPath[0],
				Aliases:     child.Aliases,
				Summary:     child.Short,
				Description: child.Long,
				Example:     child.Example,
				Args:        strings.TrimSpace(args),
				Flags:       localFlags(child),
			})
		}
	}
	walk(root, nil)
	return entries
}

// localFlags lists the flags a command defines itself; the global flags are
// left out.
func localFlags(c *cobra.Command) []FlagEntry {
	var flags []FlagEntry
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		required := false
		if v := f.Annotations[cobra.BashCompOneRequiredFlag]; len(v) > 0 {
			required = v[0] == "true"
		}
		flags = append(flags, FlagEntry{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Default:   f.DefValue,
			Usage:     f.Usage,
			Required:  required,
		})
	})
	return flags
}
