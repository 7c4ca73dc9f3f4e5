package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

type (
	getFunc    func(c *client.Client, ctx context.Context, id int) (*client.Response, error)
	createFunc func(c *client.Client, ctx context.Context, body any) (*client.Response, error)
	updateFunc func(c *client.Client, ctx context.Context, id int, body any) (*client.Response, error)
)

// resource describes one backend collection for the shared get, create,
// update and delete commands.
type resource struct {
	noun   string // used in help text, e.g. textbook
	label  string // used in notices, e.g. 教材
	view   view
	write  ui.Check  // required for create, update and delete
	remove ui.Check  // overrides write for delete when set
	rules  []ui.Rule // checked before create

	get    getFunc
	create createFunc
	update updateFunc
	delete getFunc
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be a positive integer", arg)
	}
	return id, nil
}

func validateBody(body map[string]any, rules []ui.Rule) error {
	if errs := ui.ValidateForm(stringFields(body), rules); len(errs) > 0 {
		return errors.New(strings.Join(errs, "；"))
	}
	return nil
}

func (r resource) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a " + r.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := r.get(a.client, cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printRecord(cmd, resp, r.view)
		},
	}
}

func (r resource) createCmd(a *app) *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.noun + " from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.require(r.write); err != nil {
				return err
			}
			data, err := body.read(a.in)
			if err != nil {
				return err
			}
			if err := validateBody(data, r.rules); err != nil {
				return err
			}
			resp, err := r.create(a.client, cmd.Context(), data)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, r.label+"已创建", r.view.id)
		},
	}
	body.register(cmd)
	return cmd
}

func (r resource) updateCmd(a *app) *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + r.noun + " from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.require(r.write); err != nil {
				return err
			}
			data, err := body.read(a.in)
			if err != nil {
				return err
			}
			resp, err := r.update(a.client, cmd.Context(), id, data)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, r.label+"已更新", r.view.id)
		},
	}
	body.register(cmd)
	return cmd
}

func (r resource) deleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + r.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			check := r.write
			if r.remove != nil {
				check = r.remove
			}
			if err := a.require(check); err != nil {
				return err
			}
			ok, err := confirmAction(a.in, cmd.ErrOrStderr(), fmt.Sprintf("确定要删除该%s吗？", r.label), yes)
			if err != nil || !ok {
				return err
			}
			resp, err := r.delete(a.client, cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, r.label+"已删除", "")
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// listFlags are the paging flags every list command takes.
type listFlags struct {
	page    int
	perPage int
}

func (l *listFlags) register(cmd *cobra.Command, defaultPerPage int) {
	cmd.Flags().IntVar(&l.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&l.perPage, "per-page", defaultPerPage, "Rows per page")
}

func (l listFlags) options() client.ListOptions {
	return client.ListOptions{Page: l.page, PerPage: l.perPage}
}
