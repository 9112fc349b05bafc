package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/ui"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Work with folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "List the documents of a folder with their record metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return foldersListLogic(a, cmd, args)
	},
}

func foldersListLogic(a *App, cmd *cobra.Command, args []string) error {
	docs, err := a.Client.DocumentsIn(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing folder: %w", err)
	}
	ui.DisplayDocuments(docs)
	return nil
}

var foldersMkdirCmd = &cobra.Command{
	Use:   "mkdir <folder>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return foldersMkdirLogic(a, cmd, args)
	},
}

func foldersMkdirLogic(a *App, cmd *cobra.Command, args []string) error {
	status, err := a.Client.CreateFolder(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("creating folder: %w", err)
	}
	ui.PrintSuccess("Folder created (HTTP %d)", status)
	return nil
}

var foldersExistsCmd = &cobra.Command{
	Use:   "exists <folder>",
	Short: "Check whether a folder exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if a.Client.FolderExists(cmd.Context(), args[0]) {
			ui.Success("Folder exists.")
		} else {
			ui.Success("Folder does not exist.")
		}
		return nil
	},
}

var foldersPublishCmd = &cobra.Command{
	Use:   "publish <local-path> <folder-name>",
	Short: "Publish a local file into a collaboration folder",
	Long: `Uploads a local file into a folder under the configured base folder,
creating the folder when missing. The file name is sanitized so SharePoint
accepts it; metadata properties given with --set are merged afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return foldersPublishLogic(a, cmd, args)
	},
}

func foldersPublishLogic(a *App, cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer in.Close()

	properties, _ := cmd.Flags().GetStringToString("set")
	if err := a.Client.CollaborationUpload(cmd.Context(), args[1], filepath.Base(args[0]), in, properties); err != nil {
		return fmt.Errorf("publishing document: %w", err)
	}
	ui.PrintSuccess("Published %s into %s", args[0], args[1])
	return nil
}

func init() {
	foldersPublishCmd.Flags().StringToString("set", nil, "Property to set, as name=value (repeatable)")

	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersMkdirCmd)
	foldersCmd.AddCommand(foldersExistsCmd)
	foldersCmd.AddCommand(foldersPublishCmd)
	rootCmd.AddCommand(foldersCmd)
}
