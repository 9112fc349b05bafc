package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/ui"
	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Work with individual documents",
}

var documentsStatCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show a document's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsStatLogic(a, cmd, args)
	},
}

func documentsStatLogic(a *App, cmd *cobra.Command, args []string) error {
	properties, _ := cmd.Flags().GetStringSlice("property")
	info, err := a.Client.GetDocument(cmd.Context(), args[0], properties)
	if err != nil {
		return fmt.Errorf("getting document metadata: %w", err)
	}
	ui.DisplayDocumentInfo(info)
	return nil
}

var documentsDownloadCmd = &cobra.Command{
	Use:   "download <path> [local-path]",
	Short: "Download a document, following link documents",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsDownloadLogic(a, cmd, args)
	},
}

func documentsDownloadLogic(a *App, cmd *cobra.Command, args []string) error {
	var linkCreds *sharepoint.Credentials
	linkUser, _ := cmd.Flags().GetString("link-username")
	linkPass, _ := cmd.Flags().GetString("link-password")
	if linkUser != "" {
		linkCreds = &sharepoint.Credentials{Username: linkUser, Password: linkPass}
	}

	result, err := a.Client.Download(cmd.Context(), args[0], linkCreds)
	if err != nil {
		return fmt.Errorf("downloading document: %w", err)
	}

	localPath := filepath.Base(args[0])
	if len(args) == 2 {
		localPath = args[1]
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}
	defer out.Close()

	bar := ui.NewProgressBar(int64(len(result.Contents)), "downloading")
	if _, err := io.Copy(out, ui.ProgressReader(bytes.NewReader(result.Contents), bar)); err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}

	if result.LinkURL != "" {
		a.Logger.Debug("download resolved through link", "url", result.LinkURL)
	}
	ui.PrintSuccess("Downloaded %s (%d bytes)", localPath, len(result.Contents))
	return nil
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <local-path> <folder>",
	Short: "Upload a local file into a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsUploadLogic(a, cmd, args)
	},
}

func documentsUploadLogic(a *App, cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", args[0], err)
	}

	bar := ui.NewProgressBar(stat.Size(), "uploading")
	status, err := a.Client.Upload(cmd.Context(), args[1], filepath.Base(args[0]),
		ui.ProgressReader(in, bar))
	if err != nil {
		return fmt.Errorf("uploading document: %w", err)
	}
	ui.PrintSuccess("Uploaded %s (HTTP %d)", filepath.Base(args[0]), status)
	return nil
}

var documentsUpdateCmd = &cobra.Command{
	Use:   "update <path>",
	Short: "Merge metadata properties into a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsUpdateLogic(a, cmd, args)
	},
}

func documentsUpdateLogic(a *App, cmd *cobra.Command, args []string) error {
	properties, _ := cmd.Flags().GetStringToString("set")
	status, err := a.Client.UpdateMetadata(cmd.Context(), args[0], properties)
	if err != nil {
		return fmt.Errorf("updating metadata: %w", err)
	}
	ui.PrintSuccess("Metadata updated (HTTP %d)", status)
	return nil
}

var documentsRmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsRmLogic(a, cmd, args)
	},
}

func documentsRmLogic(a *App, cmd *cobra.Command, args []string) error {
	if err := a.Client.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	ui.PrintSuccess("Deleted %s", args[0])
	return nil
}

var documentsExistsCmd = &cobra.Command{
	Use:   "exists <path>",
	Short: "Check whether a document exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return documentsExistsLogic(a, cmd, args)
	},
}

func documentsExistsLogic(a *App, cmd *cobra.Command, args []string) error {
	if a.Client.DocumentExists(cmd.Context(), args[0]) {
		ui.Success("Document exists.")
		return nil
	}
	ui.Success("Document does not exist.")
	return nil
}

var documentsEditURLCmd = &cobra.Command{
	Use:   "edit-url <path>",
	Short: "Print the browser URL that opens a document for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		fmt.Println(a.Client.WebEditURL(args[0]))
		return nil
	},
}

func init() {
	documentsStatCmd.Flags().StringSlice("property", nil, "Additional item property to fetch (repeatable)")
	documentsDownloadCmd.Flags().String("link-username", "", "Override username when following a link document")
	documentsDownloadCmd.Flags().String("link-password", "", "Override password when following a link document")
	documentsUpdateCmd.Flags().StringToString("set", nil, "Property to set, as name=value (repeatable)")

	documentsCmd.AddCommand(documentsStatCmd)
	documentsCmd.AddCommand(documentsDownloadCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsUpdateCmd)
	documentsCmd.AddCommand(documentsRmCmd)
	documentsCmd.AddCommand(documentsExistsCmd)
	documentsCmd.AddCommand(documentsEditURLCmd)
	rootCmd.AddCommand(documentsCmd)
}
