package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

const searchDelay = 300 * time.Millisecond

var textbookView = view{
	columns: []string{"textbook_id", "isbn", "textbook_name", "author", "publisher_name", "type_name", "price", "current_quantity"},
	format:  map[string]func(any) string{"price": ui.FormatMoney},
	id:      "textbook_id",
}

var textbooks = resource{
	noun:   "textbook",
	label:  "教材",
	view:   textbookView,
	write:  ui.CanManageBasicData,
	rules:  ui.TextbookRules,
	get:    (*client.Client).GetTextbook,
	create: (*client.Client).CreateTextbook,
	update: (*client.Client).UpdateTextbook,
	delete: (*client.Client).DeleteTextbook,
}

func newTextbooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "textbooks",
		Aliases: []string{"textbook", "tb"},
		Short:   "Browse and maintain the textbook catalog",
	}
	cmd.AddCommand(
		newTextbooksListCmd(a),
		textbooks.getCmd(a),
		textbooks.createCmd(a),
		textbooks.updateCmd(a),
		textbooks.deleteCmd(a),
		newTextbooksSearchCmd(a),
	)
	return cmd
}

func newTextbooksListCmd(a *app) *cobra.Command {
	var (
		list   listFlags
		filter client.TextbookFilter
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List textbooks",
		Example: `  textbook textbooks list --keyword 数据结构
  textbook textbooks list --publisher-id 3 --page 2 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.ListOptions = list.options()
			resp, err := a.client.ListTextbooks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, textbookView)
		},
	}
	list.register(cmd, 10)
	cmd.Flags().StringVarP(&filter.Keyword, "keyword", "k", "", "Match ISBN, name or author")
	cmd.Flags().IntVar(&filter.PublisherID, "publisher-id", 0, "Only textbooks from this publisher")
	cmd.Flags().IntVar(&filter.TypeID, "type-id", 0, "Only textbooks of this type")
	return cmd
}

func newTextbooksSearchCmd(a *app) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search textbooks, interactively as you type when no keyword is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !interactive {
				resp, err := a.searchTextbooks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printList(cmd, resp, textbookView)
			}
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			query, err := a.interactiveSearch(cmd.Context(), a.in, cmd.ErrOrStderr(), initial)
			if err != nil {
				return err
			}
			if query == "" {
				return nil
			}
			resp, err := a.searchTextbooks(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, textbookView)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Search as you type even when a keyword is given")
	return cmd
}

func (a *app) searchTextbooks(ctx context.Context, keyword string) (*client.Response, error) {
	return a.client.ListTextbooks(ctx, client.TextbookFilter{
		ListOptions: client.ListOptions{Page: 1, PerPage: 10},
		Keyword:     strings.TrimSpace(keyword),
	})
}

// interactiveSearch edits a query line and previews matches on out, waiting
// searchDelay after the last keystroke before asking the backend. Enter
// returns the query; Esc or Ctrl-C returns "". A terminal input is switched
// to raw mode for the duration.
func (a *app) interactiveSearch(ctx context.Context, in io.Reader, out io.Writer, initial string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
	}

	var (
		mu    sync.Mutex
		done  atomic.Bool
		query = []rune(initial)
	)
	draw := func(q, preview string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(out, "\r\x1b[J搜索教材: %s", q)
		if preview != "" {
			_, _ = fmt.Fprintf(out, "\r\n%s\x1b[%dA\r\x1b[%dC", preview, strings.Count(preview, "\r\n")+1, client.DisplayWidth("搜索教材: "+q))
		}
	}
	search := ui.Debounce(func(q string) {
		if done.Load() || strings.TrimSpace(q) == "" {
			return
		}
		resp, err := a.searchTextbooks(ctx, q)
		if done.Load() {
			return
		}
		draw(q, searchPreview(resp, err))
	}, searchDelay)

	draw(string(query), "")
	if len(query) > 0 {
		search(string(query))
	}

	r := bufio.NewReader(in)
	for {
		ch, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			done.Store(true)
			return "", nil
		}
		if err != nil {
			done.Store(true)
			return "", fmt.Errorf("read input: %w", err)
		}
		switch {
		case ch == '\r' || ch == '\n':
			done.Store(true)
			mu.Lock()
			_, _ = fmt.Fprint(out, "\r\x1b[J")
			mu.Unlock()
			return strings.TrimSpace(string(query)), nil
		case ch == 3 || ch == 27:
			done.Store(true)
			mu.Lock()
			_, _ = fmt.Fprint(out, "\r\x1b[J")
			mu.Unlock()
			return "", nil
		case ch == 127 || ch == 8:
			if len(query) > 0 {
				query = query[:len(query)-1]
			}
		case unicode.IsPrint(ch):
			query = append(query, ch)
		default:
			continue
		}
		draw(string(query), "")
		search(string(query))
	}
}

// searchPreview is the raw-mode preview of a search: up to five matches,
// one per line.
func searchPreview(resp *client.Response, err error) string {
	if err != nil {
		return "✖ " + ui.ErrorMessage(err, "搜索失败")
	}
	records, err := resp.Records()
	if err != nil {
		return "✖ " + err.Error()
	}
	if len(records) == 0 {
		return "  暂无数据"
	}
	lines := make([]string, 0, 5)
	for i, rec := range records {
		if i == 5 {
			lines = append(lines, fmt.Sprintf("  … 共 %d 条", len(records)))
			break
		}
		lines = append(lines, fmt.Sprintf("  %s  %s  %s",
			client.ExtractField(rec, "isbn"),
			client.ExtractField(rec, "textbook_name"),
			client.ExtractField(rec, "author")))
	}
	return strings.Join(lines, "\r\n")
}
