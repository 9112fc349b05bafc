package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/ui"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set connection and credential settings",
	Long: `Writes connection settings to the configuration file. Only flags that are
given are changed; everything else keeps its current value.

NTLM example:
  sharepoint-client configure --uri https://sharepoint.example.com \
    --auth ntlm --username svc-account --password secret

Token example:
  sharepoint-client configure --uri https://sharepoint.example.com \
    --auth token --client-id ID --client-secret SECRET --tenant-id TENANT \
    --cert-name CERT --auth-scope SCOPE --token-url https://auth.example.com/token`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppWithoutClient(cmd)
		if err != nil {
			return err
		}
		return configureLogic(a, cmd)
	},
}

func configureLogic(a *App, cmd *cobra.Command) error {
	assign := map[string]*string{
		"uri":           &a.Config.URI,
		"auth":          &a.Config.Authentication,
		"username":      &a.Config.Username,
		"password":      &a.Config.Password,
		"client-id":     &a.Config.ClientID,
		"client-secret": &a.Config.ClientSecret,
		"tenant-id":     &a.Config.TenantID,
		"cert-name":     &a.Config.CertName,
		"auth-scope":    &a.Config.AuthScope,
		"token-url":     &a.Config.TokenURL,
		"site-path":     &a.Config.SitePath,
		"base-folder":   &a.Config.BaseFolder,
		"base-uri":      &a.Config.BaseURI,
	}
	for flag, target := range assign {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	if cmd.Flags().Changed("save-debug") {
		a.Config.Debug, _ = cmd.Flags().GetBool("save-debug")
	}

	if err := a.Config.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	ui.Success("Configuration saved.")
	return nil
}

var configureShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration (passwords redacted)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppWithoutClient(cmd)
		if err != nil {
			return err
		}
		return configureShowLogic(a)
	},
}

func configureShowLogic(a *App) error {
	fmt.Printf("uri:            %s\n", a.Config.URI)
	fmt.Printf("authentication: %s\n", a.Config.Authentication)
	fmt.Printf("username:       %s\n", a.Config.Username)
	fmt.Printf("password:       %s\n", redact(a.Config.Password))
	fmt.Printf("client_id:      %s\n", a.Config.ClientID)
	fmt.Printf("client_secret:  %s\n", redact(a.Config.ClientSecret))
	fmt.Printf("tenant_id:      %s\n", a.Config.TenantID)
	fmt.Printf("cert_name:      %s\n", a.Config.CertName)
	fmt.Printf("auth_scope:     %s\n", a.Config.AuthScope)
	fmt.Printf("token_url:      %s\n", a.Config.TokenURL)
	fmt.Printf("site_path:      %s\n", a.Config.SitePath)
	fmt.Printf("base_folder:    %s\n", a.Config.BaseFolder)
	fmt.Printf("base_uri:       %s\n", a.Config.BaseURI)
	fmt.Printf("debug:          %v\n", a.Config.Debug)
	return nil
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func init() {
	configureCmd.Flags().String("uri", "", "Root URI of the SharePoint deployment")
	configureCmd.Flags().String("auth", "", "Authentication mode: ntlm or token")
	configureCmd.Flags().String("username", "", "NTLM username")
	configureCmd.Flags().String("password", "", "NTLM password")
	configureCmd.Flags().String("client-id", "", "Token-mode client id")
	configureCmd.Flags().String("client-secret", "", "Token-mode client secret")
	configureCmd.Flags().String("tenant-id", "", "Token-mode tenant id")
	configureCmd.Flags().String("cert-name", "", "Token-mode certificate name")
	configureCmd.Flags().String("auth-scope", "", "Token-mode authentication scope")
	configureCmd.Flags().String("token-url", "", "Token endpoint URL")
	configureCmd.Flags().String("site-path", "", "Site collection path, e.g. /sites/records")
	configureCmd.Flags().String("base-folder", "", "Base folder for collaboration uploads")
	configureCmd.Flags().String("base-uri", "", "Public base URI for web edit links")
	configureCmd.Flags().Bool("save-debug", false, "Persist debug logging as the default")

	configureCmd.AddCommand(configureShowCmd)
	rootCmd.AddCommand(configureCmd)
}
