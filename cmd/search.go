package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/ui"
	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents with a KQL query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return searchLogic(a, cmd, args)
	},
}

func searchLogic(a *App, cmd *cobra.Command, args []string) error {
	paging, err := ui.ParsePagingFlags(cmd)
	if err != nil {
		return err
	}
	properties, _ := cmd.Flags().GetStringSlice("property")

	results, err := a.Client.Search(cmd.Context(), sharepoint.SearchOptions{
		Query:      args[0],
		Properties: properties,
		StartRow:   paging.StartRow,
		RowLimit:   paging.RowLimit,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	ui.DisplaySearchResults(results)
	ui.HandleNextPageInfo(len(results), paging)
	return nil
}

var searchModifiedCmd = &cobra.Command{
	Use:   "modified",
	Short: "Find documents modified within a time window",
	Long: `Finds documents whose last-modified time falls within the given window.
Timestamps are RFC 3339, e.g. 2024-05-01T00:00:00Z. The window can be
narrowed to a web or list by id.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return searchModifiedLogic(a, cmd)
	},
}

func searchModifiedLogic(a *App, cmd *cobra.Command) error {
	paging, err := ui.ParsePagingFlags(cmd)
	if err != nil {
		return err
	}

	sinceRaw, _ := cmd.Flags().GetString("since")
	startAt, err := time.Parse(time.RFC3339, sinceRaw)
	if err != nil {
		return fmt.Errorf("parsing --since: %w", err)
	}

	var endAt *time.Time
	if untilRaw, _ := cmd.Flags().GetString("until"); untilRaw != "" {
		parsed, err := time.Parse(time.RFC3339, untilRaw)
		if err != nil {
			return fmt.Errorf("parsing --until: %w", err)
		}
		endAt = &parsed
	}

	webID, _ := cmd.Flags().GetString("web-id")
	listID, _ := cmd.Flags().GetString("list-id")
	properties, _ := cmd.Flags().GetStringSlice("property")

	results, err := a.Client.SearchModifiedDocuments(cmd.Context(), sharepoint.ModifiedSearchOptions{
		StartAt:    startAt,
		EndAt:      endAt,
		WebID:      webID,
		ListID:     listID,
		Properties: properties,
		StartRow:   paging.StartRow,
		RowLimit:   paging.RowLimit,
	})
	if err != nil {
		return fmt.Errorf("searching modified documents: %w", err)
	}

	ui.DisplaySearchResults(results)
	ui.HandleNextPageInfo(len(results), paging)
	return nil
}

func init() {
	searchCmd.Flags().StringSlice("property", nil, "Additional search property to select (repeatable)")
	ui.AddPagingFlags(searchCmd)

	searchModifiedCmd.Flags().String("since", "", "Start of the modification window, RFC 3339 (required)")
	searchModifiedCmd.Flags().String("until", "", "End of the modification window, RFC 3339")
	searchModifiedCmd.Flags().String("web-id", "", "Limit results to this web id")
	searchModifiedCmd.Flags().String("list-id", "", "Limit results to this list id")
	searchModifiedCmd.Flags().StringSlice("property", nil, "Additional search property to select (repeatable)")
	ui.AddPagingFlags(searchModifiedCmd)
	searchModifiedCmd.MarkFlagRequired("since")

	searchCmd.AddCommand(searchModifiedCmd)
	rootCmd.AddCommand(searchCmd)
}
