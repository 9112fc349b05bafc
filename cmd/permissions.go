package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/ui"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Manage document permissions",
}

var permissionsGrantCmd = &cobra.Command{
	Use:   "grant <path> <logon-name>",
	Short: "Grant a role on a document to a user",
	Long: `Grants a role on a document to the user behind the logon name. The
document's permission inheritance is broken first so the grant applies to this
document only. The role definition id defaults to the built-in Read role.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return permissionsGrantLogic(a, cmd, args)
	},
}

func permissionsGrantLogic(a *App, cmd *cobra.Command, args []string) error {
	roleID, _ := cmd.Flags().GetInt("role-id")
	if err := a.Client.GrantPermission(cmd.Context(), args[0], args[1], roleID); err != nil {
		return fmt.Errorf("granting permission: %w", err)
	}
	ui.PrintSuccess("Granted role %d on %s to %s", roleID, args[0], args[1])
	return nil
}

var permissionsRevokeCmd = &cobra.Command{
	Use:   "revoke <path> <principal-id>",
	Short: "Revoke a principal's role assignment on a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return permissionsRevokeLogic(a, cmd, args)
	},
}

func permissionsRevokeLogic(a *App, cmd *cobra.Command, args []string) error {
	var principalID int
	if _, err := fmt.Sscanf(args[1], "%d", &principalID); err != nil {
		return fmt.Errorf("parsing principal id %q: %w", args[1], err)
	}

	if err := a.Client.RevokePermission(cmd.Context(), args[0], principalID); err != nil {
		return fmt.Errorf("revoking permission: %w", err)
	}
	ui.PrintSuccess("Revoked principal %d on %s", principalID, args[0])
	return nil
}

var permissionsResetCmd = &cobra.Command{
	Use:   "reset <path>",
	Short: "Reset a document to its parent's permissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return permissionsResetLogic(a, cmd, args)
	},
}

func permissionsResetLogic(a *App, cmd *cobra.Command, args []string) error {
	if err := a.Client.ResetRoleInheritance(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("resetting permissions: %w", err)
	}
	ui.PrintSuccess("Permissions on %s reset to inherited", args[0])
	return nil
}

var permissionsEnsureUserCmd = &cobra.Command{
	Use:   "ensure-user <logon-name>",
	Short: "Resolve a logon name to a site principal id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		id, err := a.Client.EnsureUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("resolving user: %w", err)
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	// 1073741826 is SharePoint's built-in Read role definition.
	permissionsGrantCmd.Flags().Int("role-id", 1073741826, "Role definition id to grant")

	permissionsCmd.AddCommand(permissionsGrantCmd)
	permissionsCmd.AddCommand(permissionsRevokeCmd)
	permissionsCmd.AddCommand(permissionsResetCmd)
	permissionsCmd.AddCommand(permissionsEnsureUserCmd)
	rootCmd.AddCommand(permissionsCmd)
}
