// Package sharepoint (collaboration.go) provides the collaboration-area
// workflow: publishing a document into a shared folder under the configured
// base folder, checking for it, and producing a browser edit link.
package sharepoint

import (
	"context"
	"fmt"
	"io"
)

// CollaborationUpload publishes content into a collaboration folder under the
// configured base folder, creating the folder when missing. The file name is
// sanitized before upload; when properties are given they are merged into the
// uploaded item's metadata afterwards.
func (c *Client) CollaborationUpload(ctx context.Context, folderName, fileName string, content io.Reader, properties map[string]string) error {
	folderPath := c.collaborationFolder(folderName)
	name := SanitizeFilename(fileName)
	if err := ValidateFilename(name); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if !c.FolderExists(ctx, folderPath) {
		if _, err := c.CreateFolder(ctx, folderPath); err != nil {
			return fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}

	if _, err := c.Upload(ctx, folderPath, name, content); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if len(properties) > 0 {
		filePath := RemoveDoubleSlashes(folderPath + "/" + name)
		if _, err := c.UpdateMetadata(ctx, filePath, properties); err != nil {
			return fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}
	return nil
}

// CollaborationDocumentExists reports whether fileName is present in a
// collaboration folder. The name is sanitized the same way uploads are, so a
// name that was rewritten on upload is found again here.
func (c *Client) CollaborationDocumentExists(ctx context.Context, folderName, fileName string) bool {
	filePath := RemoveDoubleSlashes(c.collaborationFolder(folderName) + "/" + SanitizeFilename(fileName))
	return c.DocumentExists(ctx, filePath)
}

// WebEditURL returns the browser URL that opens a document for editing. The
// configured BaseURI overrides the site URL as the public host when set.
func (c *Client) WebEditURL(filePath string) string {
	base := c.config.BaseURI
	if base == "" {
		base = c.siteURL()
	}
	return RemoveDoubleSlashes(base+"/_layouts/15/WopiFrame.aspx") +
		"?sourcedoc=" + EscapeURI(c.serverRelative(filePath)) + "&action=edit"
}

// collaborationFolder joins the configured base folder with a folder name.
func (c *Client) collaborationFolder(folderName string) string {
	if c.config.BaseFolder == "" {
		return folderName
	}
	return RemoveDoubleSlashes(c.config.BaseFolder + "/" + folderName)
}
