package cli

import (
	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

var publishers = resource{
	noun:  "publisher",
	label: "出版社",
	view: view{
		columns: []string{"publisher_id", "publisher_name", "contact_person", "contact_phone", "email", "status"},
		id:      "publisher_id",
	},
	write:  ui.CanManageBasicData,
	rules:  []ui.Rule{{Field: "publisher_name", Label: "出版社名称", Required: true}},
	get:    (*client.Client).GetPublisher,
	create: (*client.Client).CreatePublisher,
	update: (*client.Client).UpdatePublisher,
	delete: (*client.Client).DeletePublisher,
}

var textbookTypes = resource{
	noun:  "textbook type",
	label: "教材类型",
	view: view{
		columns: []string{"type_id", "type_name", "type_code", "parent_id", "description", "status"},
		id:      "type_id",
	},
	write: ui.CanManageBasicData,
	rules: []ui.Rule{
		{Field: "type_name", Label: "类型名称", Required: true},
		{Field: "type_code", Label: "类型编码", Required: true},
	},
	get:    (*client.Client).GetTextbookType,
	create: (*client.Client).CreateTextbookType,
	update: (*client.Client).UpdateTextbookType,
	delete: (*client.Client).DeleteTextbookType,
}

func newPublishersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "publishers",
		Aliases: []string{"publisher"},
		Short:   "Manage publishers",
	}

	var (
		list    listFlags
		keyword string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List publishers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.ListPublishers(cmd.Context(), client.PublisherFilter{
				ListOptions: list.options(),
				Keyword:     keyword,
			})
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, publishers.view)
		},
	}
	list.register(listCmd, 100)
	listCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match publisher name")

	cmd.AddCommand(
		listCmd,
		publishers.getCmd(a),
		publishers.createCmd(a),
		publishers.updateCmd(a),
		publishers.deleteCmd(a),
	)
	return cmd
}

func newTypesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"type"},
		Short:   "Manage textbook types",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List textbook types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.ListTextbookTypes(cmd.Context())
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, textbookTypes.view)
		},
	}

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show textbook types as a hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.TextbookTypeTree(cmd.Context())
			if err != nil {
				return err
			}
			if a.output != "table" || a.quiet {
				return a.printList(cmd, resp, textbookTypes.view)
			}
			records, err := resp.Records()
			if err != nil {
				return err
			}
			printTypeTree(cmd.OutOrStdout(), records, "")
			return nil
		},
	}

	cmd.AddCommand(
		listCmd,
		treeCmd,
		textbookTypes.getCmd(a),
		textbookTypes.createCmd(a),
		textbookTypes.updateCmd(a),
		textbookTypes.deleteCmd(a),
	)
	return cmd
}
