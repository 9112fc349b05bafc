// Package ui (display.go) formats SharePoint records (documents, list items,
// search results) for the console and provides progress bars plus
// standardized success/error messages.
package ui

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

// Success prints a simple success message to standard output.
func Success(msg string) {
	fmt.Println(msg)
}

// PrintSuccess prints a formatted success message.
func PrintSuccess(msg string, args ...interface{}) {
	log.Printf("SUCCESS: "+msg, args...)
}

// PrintError reports an error encountered during command execution.
func PrintError(err error) {
	log.Printf("ERROR: %v", err)
}

// DisplayDocuments prints a table of folder listing records.
func DisplayDocuments(docs []sharepoint.Document) {
	if len(docs) == 0 {
		fmt.Println("No documents found in this folder.")
		return
	}

	fmt.Printf("%-40s %-20s %-12s %s\n", "Name", "Modified", "Record type", "Issued")
	fmt.Println(strings.Repeat("-", 90))
	for _, doc := range docs {
		fmt.Printf("%-40s %-20s %-12s %s\n",
			truncate(doc.Name, 40),
			doc.UpdatedAt.Format(time.DateTime),
			truncate(doc.RecordType, 12),
			doc.DateOfIssue)
	}
	fmt.Printf("\n%d document(s)\n", len(docs))
}

// DisplayDocumentInfo prints a single document's metadata record.
func DisplayDocumentInfo(info *sharepoint.DocumentInfo) {
	fmt.Printf("Title:      %s\n", info.Title)
	fmt.Printf("Created:    %s\n", info.CreatedAt.Format(time.DateTime))
	fmt.Printf("Modified:   %s\n", info.UpdatedAt.Format(time.DateTime))
	if info.IsLink() {
		fmt.Printf("Link to:    %s\n", info.URL)
	}
	if info.EntityType != "" {
		fmt.Printf("Item type:  %s\n", info.EntityType)
	}
	for _, key := range sortedKeys(info.Properties) {
		fmt.Printf("%-11s %s\n", key+":", info.Properties[key])
	}
}

// DisplaySearchResults prints search hits, one block per result.
func DisplaySearchResults(results []sharepoint.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	for i, result := range results {
		fmt.Printf("--- result %d ---\n", i+1)
		for _, key := range sortedKeys(result) {
			fmt.Printf("  %-20s %s\n", key+":", result[key])
		}
	}
	fmt.Printf("\n%d result(s)\n", len(results))
}

// DisplayListItems prints list query records, one block per item.
func DisplayListItems(items []sharepoint.ListItem) {
	if len(items) == 0 {
		fmt.Println("No matching items.")
		return
	}

	for i, item := range items {
		fmt.Printf("--- item %d ---\n", i+1)
		for _, key := range sortedKeys(item) {
			fmt.Printf("  %-20s %s\n", key+":", item[key])
		}
	}
	fmt.Printf("\n%d item(s)\n", len(items))
}

// NewProgressBar creates a byte-count progress bar for uploads and downloads.
// A non-positive size yields a spinner-style bar.
func NewProgressBar(size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

// ProgressReader wraps a reader so that bytes flowing through it advance a
// progress bar.
func ProgressReader(r io.Reader, bar *progressbar.ProgressBar) io.Reader {
	return io.TeeReader(r, bar)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
