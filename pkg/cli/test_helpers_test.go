package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"textbook-admin/pkg/client"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// isolateHome points the config file at a fresh directory and clears the
// environment overrides.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TEXTBOOK_HOST", "")
	t.Setenv("TEXTBOOK_TOKEN", "")
	t.Setenv("TEXTBOOK_OUTPUT", "")
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(newRootCmd(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// signIn stores a session for user in the default profile, pointed at host.
func signIn(t *testing.T, host string, user *client.User) {
	t.Helper()
	userJSON, err := client.EncodeUser(user)
	require.NoError(t, err)
	cfg := newUserConfig()
	cfg.Profiles[defaultProfile] = Profile{Host: host, Token: "stored-token", User: userJSON}
	require.NoError(t, SaveUserConfig(cfg))
}

func storedProfile(t *testing.T) Profile {
	t.Helper()
	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	return cfg.Profiles[defaultProfile]
}

var (
	adminUser   = &client.User{UserID: 1, Username: "admin", RealName: "王主任", Role: "管理员"}
	teacherUser = &client.User{UserID: 7, Username: "li", RealName: "李老师", Role: "教师"}
	keeperUser  = &client.User{UserID: 3, Username: "zhao", RealName: "赵库管", Role: "仓库管理员"}
)
