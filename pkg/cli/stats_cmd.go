package cli

import (
	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

var (
	dashboardView = view{
		format: map[string]func(any) string{"inventory_value": ui.FormatMoney},
		id:     "textbook_count",
	}
	byTypeView = view{
		columns: []string{"type_id", "type_name", "type_code", "textbook_count", "order_quantity", "arrived_quantity", "issued_quantity", "current_quantity"},
		id:      "type_id",
	}
	byPublisherView = view{
		columns: []string{"publisher_id", "publisher_name", "textbook_count", "order_quantity", "arrived_quantity", "issued_quantity", "current_quantity"},
		id:      "publisher_id",
	}
	byTextbookView = view{id: "textbook_id"}
	byDateView     = view{
		columns: []string{"month", "order_quantity", "arrived_quantity", "issued_quantity"},
		id:      "month",
	}
	warningView = view{
		columns: []string{"textbook_id", "isbn", "textbook_name", "publisher_name", "current_quantity", "min_quantity", "max_quantity", "status"},
		id:      "textbook_id",
	}
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"statistics"},
		Short:   "Inventory and purchasing statistics",
	}

	list := func(use, short string, v view, fetch func(*client.Client, *cobra.Command) (*client.Response, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := fetch(a.client, cmd)
				if err != nil {
					return err
				}
				return a.printList(cmd, resp, v)
			},
		}
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return a.printRecord(cmd, resp, dashboardView)
		},
	}

	byTextbookCmd := &cobra.Command{
		Use:   "by-textbook <id>",
		Short: "Show ordered, arrived, issued and current quantities of one textbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := a.client.StatisticsByTextbook(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printRecord(cmd, resp, byTextbookView)
		},
	}

	var dates dateRange
	byDateCmd := list("by-date", "Monthly order and arrival totals in a date range", byDateView,
		func(c *client.Client, cmd *cobra.Command) (*client.Response, error) {
			return c.StatisticsByDate(cmd.Context(), dates.start, dates.end)
		})
	dates.register(byDateCmd)
	byDateCmd.MarkFlagsRequiredTogether("start-date", "end-date")

	cmd.AddCommand(
		dashboardCmd,
		list("by-type", "Totals per textbook type", byTypeView,
			func(c *client.Client, cmd *cobra.Command) (*client.Response, error) {
				return c.StatisticsByType(cmd.Context())
			}),
		list("by-publisher", "Totals per publisher", byPublisherView,
			func(c *client.Client, cmd *cobra.Command) (*client.Response, error) {
				return c.StatisticsByPublisher(cmd.Context())
			}),
		byTextbookCmd,
		byDateCmd,
		list("warnings", "Textbooks whose stock is outside their limits", warningView,
			func(c *client.Client, cmd *cobra.Command) (*client.Response, error) {
				return c.InventoryWarnings(cmd.Context())
			}),
	)
	return cmd
}
