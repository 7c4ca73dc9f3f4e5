package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"textbook-admin/internal/ui"
	"textbook-admin/pkg/client"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and inspect the current session",
	}
	cmd.AddCommand(
		newAuthLoginCmd(a),
		newAuthLogoutCmd(a),
		newAuthStatusCmd(a),
		newAuthWhoamiCmd(a),
		newAuthUsersCmd(a),
		newAuthRegisterCmd(a),
	)
	return cmd
}

// prompter reads answers from one buffered reader so typed-ahead input is
// not lost between questions. Passwords on a terminal are read unechoed.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *prompter) line(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	s, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) password(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(p.out, label)
		pw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	s, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session in the active profile",
		Example: `  textbook auth login -u admin
  echo "$PASSWORD" | textbook auth login -u admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(a.in, cmd.ErrOrStderr())
			var err error
			if username == "" {
				if username, err = p.line("用户名: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.password("密码: "); err != nil {
					return err
				}
			}
			values := map[string]string{"username": strings.TrimSpace(username), "password": password}
			if errs := ui.ValidateForm(values, ui.LoginRules); len(errs) > 0 {
				return errors.New(strings.Join(errs, "；"))
			}

			result, err := a.client.Login(cmd.Context(), values["username"], password)
			if err != nil {
				return errors.New(ui.LoginErrorMessage(err))
			}

			if a.output == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), map[string]any{
					"profile": a.profileName,
					"host":    a.host,
					"user":    result.User,
				})
			}
			a.notifier(cmd).Show("欢迎，"+result.User.DisplayName(), ui.MessageSuccess)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted; visible in shell history)")
	return cmd
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the session stored in the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := confirmAction(a.in, cmd.ErrOrStderr(), "确定要退出登录吗？", yes)
			if err != nil || !ok {
				return err
			}
			if err := a.client.Logout(); err != nil {
				return err
			}
			a.notifier(cmd).Show("已退出登录", ui.MessageSuccess)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// sessionStatus is what auth status reports, read from the stored session
// without calling the backend.
type sessionStatus struct {
	Profile   string `json:"profile"`
	Host      string `json:"host"`
	LoggedIn  bool   `json:"logged_in"`
	Username  string `json:"username,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Expired   bool   `json:"expired"`
}

func (a *app) sessionStatus(now time.Time) sessionStatus {
	st := sessionStatus{Profile: a.profileName, Host: a.host}
	sess := a.client.Session()
	if !sess.Valid() {
		return st
	}
	st.LoggedIn = true
	if u := a.user(); u != nil {
		st.Username = u.Username
		st.Name = u.DisplayName()
		st.Role = u.Role
	}
	if claims, err := sess.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
		st.ExpiresAt = claims.ExpiresAt.Local().Format(time.DateTime)
		st.Expired = claims.Expired(now)
	}
	return st
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session for the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.sessionStatus(time.Now())
			if a.output == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), st)
			}
			fields := map[string]any{
				"profile":   st.Profile,
				"host":      st.Host,
				"logged_in": st.LoggedIn,
			}
			if st.LoggedIn {
				fields["user"] = st.Username
				fields["name"] = st.Name
				fields["role"] = st.Role
				if st.ExpiresAt != "" {
					fields["expires_at"] = st.ExpiresAt
				}
			}
			client.PrintDetail(cmd.OutOrStdout(), fields)
			if st.Expired {
				a.notifier(cmd).Show(client.ErrSessionExpired.Error(), ui.MessageWarning)
			}
			return nil
		},
	}
}

func newAuthWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Ask the backend who the session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.client.Session().Valid() {
				return errNotLoggedIn
			}
			resp, err := a.client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.printRecord(cmd, resp, view{id: "username"})
		},
	}
}

var userView = view{
	columns: []string{"user_id", "username", "real_name", "role", "department"},
	id:      "user_id",
}

func newAuthUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.client.Session().Valid() {
				return errNotLoggedIn
			}
			resp, err := a.client.Users(cmd.Context())
			if err != nil {
				return err
			}
			return a.printList(cmd, resp, userView)
		},
	}
}

var registerRules = []ui.Rule{
	{Field: "username", Label: "用户名", Required: true},
	{Field: "password", Label: "密码", Required: true},
}

func newAuthRegisterCmd(a *app) *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				pw, err := newPrompter(a.in, cmd.ErrOrStderr()).password("密码: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			values := map[string]string{"username": strings.TrimSpace(req.Username), "password": req.Password}
			if errs := ui.ValidateForm(values, registerRules); len(errs) > 0 {
				return errors.New(strings.Join(errs, "；"))
			}
			req.Username = values["username"]

			resp, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printResult(cmd, resp, "注册成功", "user_id")
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Username, "username", "u", "", "Username")
	f.StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	f.StringVar(&req.RealName, "real-name", "", "Real name")
	f.StringVar(&req.Role, "role", "", "Role (管理员, 仓库管理员, 教师, 普通用户)")
	f.StringVar(&req.Department, "department", "", "Department")
	f.StringVar(&req.Email, "email", "", "Email address")
	f.StringVar(&req.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
