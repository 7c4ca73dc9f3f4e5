package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"textbook-admin/pkg/client"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the profiles in ~/.textbook/config.yaml",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetProfileCmd(), newConfigUseProfileCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored profiles with tokens masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no configuration at %s", ConfigPath())
			}
			if err != nil {
				return err
			}
			if !reveal {
				cfg = maskConfig(cfg)
			}
			if getOutputFormat(cmd) == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show tokens unmasked")
	return cmd
}

func maskConfig(cfg *UserConfig) *UserConfig {
	masked := &UserConfig{
		CurrentProfile: cfg.CurrentProfile,
		Profiles:       make(map[string]Profile, len(cfg.Profiles)),
	}
	for name, p := range cfg.Profiles {
		p.Token = maskSecret(p.Token)
		masked.Profiles[name] = p
	}
	return masked
}

// maskSecret hides a token, keeping four characters at each end once it is
// long enough that doing so still hides most of it.
func maskSecret(token string) string {
	const keep, stars = 4, "****"
	if token == "" {
		return token
	}
	if len(token) <= 10 {
		return stars
	}
	return token[:keep] + stars + token[len(token)-keep:]
}

// reportConfigChange writes a JSON status object, or the text line in text mode.
func reportConfigChange(cmd *cobra.Command, fields map[string]string, text string) error {
	if getOutputFormat(cmd) == "json" {
		fields["status"] = "ok"
		return client.PrintJSON(cmd.OutOrStdout(), fields)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func newConfigSetProfileCmd() *cobra.Command {
	var name, host, token, output string

	cmd := &cobra.Command{
		Use:   "set-profile",
		Short: "Create a profile or change its host, token or output format",
		Example: `  textbook config set-profile --name staging --host https://staging.example.com
  textbook config set-profile --name default --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("output") {
				if err := validateOutputFormat(output); err != nil {
					return err
				}
			}
			if flags.Changed("host") {
				if err := validateHostURL(host); err != nil {
					return err
				}
			}

			cfg, err := loadOrNewConfig()
			if err != nil {
				return err
			}
			p := cfg.Profiles[name]
			if flags.Changed("host") {
				p.Host = host
			}
			if flags.Changed("token") {
				p.Token = token
				p.User = ""
			}
			if flags.Changed("output") {
				p.Output = output
			}
			cfg.Profiles[name] = p
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}

			return reportConfigChange(cmd,
				map[string]string{"profile": name, "path": ConfigPath()},
				fmt.Sprintf("Profile %q saved to %s", name, ConfigPath()))
		},
	}

	// Local --host/--token/--output shadow the persistent flags of the same
	// name; here they describe the profile rather than this invocation.
	cmd.Flags().StringVar(&name, "name", "", "Profile name (required)")
	cmd.Flags().StringVar(&host, "host", "", "Backend host URL")
	cmd.Flags().StringVar(&token, "token", "", "Access token")
	cmd.Flags().StringVar(&output, "output", "", "Default output format")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Switch the profile used when --profile is not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}
			name := args[0]
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q not found", name)
			}
			cfg.CurrentProfile = name
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			return reportConfigChange(cmd,
				map[string]string{"active_profile": name},
				fmt.Sprintf("Active profile set to %q", name))
		},
	}
}
