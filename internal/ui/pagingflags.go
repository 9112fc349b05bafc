package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Paging carries the search paging flags shared by the search commands.
type Paging struct {
	StartRow int
	RowLimit int
}

// AddPagingFlags adds the standard search paging flags to a command.
func AddPagingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("start-row", 0, "First result row to return")
	cmd.Flags().Int("row-limit", 0, "Maximum number of result rows (server default when 0)")
}

// ParsePagingFlags extracts the paging settings from command flags.
func ParsePagingFlags(cmd *cobra.Command) (Paging, error) {
	startRow, err := cmd.Flags().GetInt("start-row")
	if err != nil {
		return Paging{}, fmt.Errorf("error parsing start-row flag: %w", err)
	}

	rowLimit, err := cmd.Flags().GetInt("row-limit")
	if err != nil {
		return Paging{}, fmt.Errorf("error parsing row-limit flag: %w", err)
	}

	return Paging{StartRow: startRow, RowLimit: rowLimit}, nil
}

// HandleNextPageInfo tells the user how to continue when a full page came
// back.
func HandleNextPageInfo(returned int, paging Paging) {
	if paging.RowLimit > 0 && returned == paging.RowLimit {
		fmt.Printf("\nMore results may be available. Use --start-row %d to continue.\n",
			paging.StartRow+paging.RowLimit)
	}
}
