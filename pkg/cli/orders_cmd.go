package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

var orders = resource{
	noun:  "purchase order",
	label: "订单",
	view: view{
		columns: []string{"order_id", "order_no", "textbook_name", "order_quantity", "arrived_quantity", "order_date", "expected_date", "order_person", "order_status"},
		format:  map[string]func(any) string{"order_date": formatDate, "expected_date": formatDate},
		id:      "order_id",
	},
	write:  ui.CanCreateOrder,
	rules:  ui.OrderRules,
	get:    (*client.Client).GetPurchaseOrder,
	create: (*client.Client).CreatePurchaseOrder,
	update: (*client.Client).UpdatePurchaseOrder,
}

var stockIns = resource{
	noun:  "stock-in",
	label: "入库单",
	view: view{
		columns: []string{"stock_in_id", "stock_in_no", "order_no", "textbook_id", "stock_in_quantity", "actual_quantity", "stock_in_date", "warehouse_person", "quality_status"},
		format:  map[string]func(any) string{"stock_in_date": formatDate},
		id:      "stock_in_id",
	},
	write:  ui.IsAdminOrWarehouse,
	remove: ui.IsAdmin,
	rules: []ui.Rule{
		{Field: "order_id", Label: "采购订单", Required: true},
		{Field: "textbook_id", Label: "教材", Required: true},
		{Field: "stock_in_quantity", Label: "入库数量", Required: true, Min: 1},
	},
	get:    (*client.Client).GetStockIn,
	create: (*client.Client).CreateStockIn,
	update: (*client.Client).UpdateStockIn,
	delete: (*client.Client).DeleteStockIn,
}

var directStockInRules = []ui.Rule{
	{Field: "textbook_id", Label: "教材", Required: true},
	{Field: "stock_in_quantity", Label: "入库数量", Required: true, Min: 1},
}

// dateRange is the --start-date/--end-date pair of list commands.
type dateRange struct {
	start string
	end   string
}

func (d *dateRange) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.start, "start-date", "", "Earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&d.end, "end-date", "", "Latest date, YYYY-MM-DD")
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order", "po"},
		Short:   "Manage purchase orders",
	}
	cmd.AddCommand(
		newOrdersListCmd(a),
		orders.getCmd(a),
		orders.createCmd(a),
		orders.updateCmd(a),
		newOrderActionCmd(a, orderAction{
			use: "approve <id>", short: "Approve a pending order", done: "订单已审核",
			flag: "approver", flagUsage: "Approver name (defaults to the signed-in user)",
			check: ui.IsAdminOrWarehouse,
			call: func(ctx context.Context, c *client.Client, id int, approver string) (*client.Response, error) {
				return c.ApprovePurchaseOrder(ctx, id, approver)
			},
		}),
		newOrderActionCmd(a, orderAction{
			use: "cancel <id>", short: "Cancel an order", done: "订单已取消",
			flag: "reason", flagUsage: "Cancellation reason",
			check: ui.CanCreateOrder,
			call: func(ctx context.Context, c *client.Client, id int, reason string) (*client.Response, error) {
				return c.CancelPurchaseOrder(ctx, id, reason)
			},
		}),
		newOrderActionCmd(a, orderAction{
			use: "deliver <id>", short: "Mark an arrived order as delivered", done: "订单已发放",
			check: ui.IsAdminOrWarehouse,
			call: func(ctx context.Context, c *client.Client, id int, _ string) (*client.Response, error) {
				return c.DeliverPurchaseOrder(ctx, id)
			},
		}),
	)
	return cmd
}

func newOrdersListCmd(a *app) *cobra.Command {
	var (
		list    listFlags
		dates   dateRange
		status  string
		keyword string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		Example: `  textbook orders list --status 待审核
  textbook orders list --start-date 2024-01-01 --end-date 2024-06-30 -o csv > orders.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				if err := validateOrderStatus(status); err != nil {
					return err
				}
			}
			resp, err := a.client.ListPurchaseOrders(cmd.Context(), client.OrderFilter{
				ListOptions: list.options(),
				Status:      status,
				Keyword:     keyword,
				StartDate:   dates.start,
				EndDate:     dates.end,
			})
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, orders.view)
		},
	}
	list.register(cmd, 10)
	dates.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only orders in this status")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match order number or textbook")
	_ = cmd.RegisterFlagCompletionFunc("status", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return orderStatusNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func orderStatusNames() []string {
	names := make([]string, len(ui.OrderStatuses))
	for i, s := range ui.OrderStatuses {
		names[i] = string(s)
	}
	return names
}

func validateOrderStatus(status string) error {
	names := orderStatusNames()
	if slices.Contains(names, status) {
		return nil
	}
	return fmt.Errorf("unknown order status %q (choose from %s)", status, strings.Join(names, ", "))
}

// orderAction is one of the lifecycle transitions; the backend decides
// whether the order's current status allows it and, for cancel, whether
// the caller owns the order.
type orderAction struct {
	use, short, done string
	flag, flagUsage  string
	check            ui.Check
	call             func(ctx context.Context, c *client.Client, id int, arg string) (*client.Response, error)
}

func newOrderActionCmd(a *app, act orderAction) *cobra.Command {
	var arg string
	cmd := &cobra.Command{
		Use:   act.use,
		Short: act.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.require(act.check); err != nil {
				return err
			}
			if act.flag == "approver" && arg == "" {
				arg = a.user().DisplayName()
			}
			resp, err := act.call(cmd.Context(), a.client, id, arg)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, act.done, "order_id")
		},
	}
	if act.flag != "" {
		cmd.Flags().StringVar(&arg, act.flag, "", act.flagUsage)
	}
	return cmd
}

func newStockInsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stock-ins",
		Aliases: []string{"stock-in", "si"},
		Short:   "Manage stock-in records",
	}

	var (
		list    listFlags
		dates   dateRange
		keyword string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stock-in records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.ListStockIns(cmd.Context(), client.StockInFilter{
				ListOptions: list.options(),
				Keyword:     keyword,
				StartDate:   dates.start,
				EndDate:     dates.end,
			})
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, stockIns.view)
		},
	}
	list.register(listCmd, 10)
	dates.register(listCmd)
	listCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match stock-in number")

	var body bodyFlags
	directCmd := &cobra.Command{
		Use:   "direct",
		Short: "Record stock that arrived without a purchase order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.require(ui.IsAdminOrWarehouse); err != nil {
				return err
			}
			data, err := body.read(a.in)
			if err != nil {
				return err
			}
			if err := validateBody(data, directStockInRules); err != nil {
				return err
			}
			resp, err := a.client.DirectStockIn(cmd.Context(), data)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, "入库成功", "stock_in_id")
		},
	}
	body.register(directCmd)

	cmd.AddCommand(
		listCmd,
		stockIns.getCmd(a),
		stockIns.createCmd(a),
		stockIns.updateCmd(a),
		stockIns.deleteCmd(a),
		directCmd,
	)
	return cmd
}
