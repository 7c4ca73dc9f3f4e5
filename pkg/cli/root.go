package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

var (
	version = "dev"
	commit  = "none"
)

var errNotLoggedIn = errors.New("尚未登录，请先运行 textbook auth login")

// app is the state shared by every command of one invocation: the resolved
// global flags and the client built from them.
type app struct {
	host    string
	token   string
	output  string
	profile string
	quiet   bool
	verbose bool

	profileName string
	client      *client.Client
	in          io.Reader
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(newRootCmd(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(root *cobra.Command, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		output, _ := root.PersistentFlags().GetString("output")
		reportError(stdout, stderr, output, err)
		return 1
	}
	return 0
}

// reportError prints a failed command. Session expiry and local permission
// refusals are warnings; everything else is an error.
func reportError(stdout, stderr io.Writer, output string, err error) {
	if output == "json" {
		obj := map[string]any{"error": err.Error()}
		if client.IsSessionExpired(err) {
			obj["code"] = 401
		}
		if apiErr, ok := client.AsAPIError(err); ok {
			obj["http_status"] = apiErr.HTTPStatus
			obj["code"] = apiErr.Code
			if fields := apiErr.FieldErrors(); len(fields) > 0 {
				obj["errors"] = fields
			}
		}
		_ = client.PrintJSON(stdout, obj)
		return
	}

	n := &Notifier{w: stderr}
	var permErr *ui.PermissionError
	switch {
	case client.IsSessionExpired(err):
		n.Show(client.ErrSessionExpired.Error(), ui.MessageWarning)
		_, _ = fmt.Fprintln(stderr, "请运行 textbook auth login 重新登录")
	case errors.As(err, &permErr):
		n.Show(permErr.Message, ui.MessageWarning)
	default:
		n.Show(ui.ErrorMessage(err, ""), ui.MessageError)
		if apiErr, ok := client.AsAPIError(err); ok {
			fields := apiErr.FieldErrors()
			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				for _, msg := range fields[name] {
					_, _ = fmt.Fprintf(stderr, "  %s: %s\n", name, msg)
				}
			}
		}
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "textbook",
		Short:         "教材管理系统命令行客户端",
		Long:          "Command-line client for the textbook management backend: catalog, purchase orders, stock-ins and statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.host, "host", client.DefaultHost, "Backend host URL (without /api/v1)")
	flags.StringVar(&a.token, "token", "", "Access token, overriding the stored session")
	flags.StringVarP(&a.output, "output", "o", "table", "Output format (table, json, csv)")
	flags.StringVarP(&a.profile, "profile", "p", "", "Config profile to use")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only print record IDs and suppress notices")
	flags.BoolVar(&a.verbose, "verbose", false, "Log backend requests to stderr")

	rootCmd.AddCommand(
		newAuthCmd(a),
		newTextbooksCmd(a),
		newPublishersCmd(a),
		newTypesCmd(a),
		newOrdersCmd(a),
		newStockInsCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newConfigCmd(),
		newVersionCmd(),
		newCommandsCmd(),
		newCompletionCmd(),
	)
	return rootCmd
}

// resolve applies flag > env > profile > default and builds the client.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg, err := loadOrNewConfig()
	if err != nil {
		return err
	}
	p, err := cfg.ActiveProfile(a.profile)
	if err != nil {
		return err
	}
	a.profileName = cfg.ProfileName(a.profile)

	flags := cmd.Flags()
	a.host = pick(flags.Changed("host"), a.host, os.Getenv("TEXTBOOK_HOST"), p.Host)
	a.token = pick(flags.Changed("token"), a.token, os.Getenv("TEXTBOOK_TOKEN"), "")
	a.output = pick(flags.Changed("output"), a.output, os.Getenv("TEXTBOOK_OUTPUT"), p.Output)

	if err := validateOutputFormat(a.output); err != nil {
		return err
	}
	if err := validateHostURL(a.host); err != nil {
		return err
	}

	opts := []client.Option{
		client.WithSessionStore(profileStore{name: a.profileName}),
		client.WithLogger(a.logger(cmd.ErrOrStderr())),
	}
	if a.token != "" {
		opts = append(opts, client.WithSession(client.Session{Token: a.token}))
	}
	a.client = client.NewClient(a.host, opts...)
	a.in = cmd.InOrStdin()
	return nil
}

// pick returns the flag value when it was set, then the first non-empty of
// env and profile, then the flag's default.
func pick(changed bool, flagValue, env, profile string) string {
	if changed {
		return flagValue
	}
	if env != "" {
		return env
	}
	if profile != "" {
		return profile
	}
	return flagValue
}

func (a *app) logger(w io.Writer) *slog.Logger {
	if !a.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// user is the signed-in user, recovered from the token claims when the
// session carries no user record.
func (a *app) user() *client.User {
	sess := a.client.Session()
	if sess.User != nil {
		return sess.User
	}
	claims, err := sess.Claims()
	if err != nil {
		return nil
	}
	return &client.User{Username: claims.Username, RealName: claims.RealName, Role: claims.Role}
}

// require refuses the command locally when check fails for the user.
func (a *app) require(check ui.Check) error {
	if !a.client.Session().Valid() {
		return errNotLoggedIn
	}
	return ui.RequirePermission(a.user(), check, "")
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
