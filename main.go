// sharepoint-client is a command-line tool for working with documents stored
// in a SharePoint deployment: folder listings, downloads, uploads, metadata,
// list queries, search, and item permissions.
package main

import "github.com/docuflow/sharepoint-client/cmd"

func main() {
	cmd.Execute()
}
