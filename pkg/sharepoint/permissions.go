// Package sharepoint (permissions.go) manages role assignments on a
// document's list item. Permission state is never materialized client-side;
// every operation is a request/response round trip against the item's
// role-assignment sub-resource, identified by server-relative URL, principal
// id, and role definition id.
package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// EnsureUser resolves a logon name to a principal id, creating the site user
// entry if needed.
func (c *Client) EnsureUser(ctx context.Context, logonName string) (int, error) {
	if strings.TrimSpace(logonName) == "" {
		return 0, fmt.Errorf("%w: logon name must not be empty", ErrInvalidInput)
	}

	digest, err := c.requestDigest(ctx)
	if err != nil {
		return 0, err
	}

	// Logon names regularly carry backslashes (claims prefixes, domain
	// accounts), so the body goes through the JSON encoder.
	body, err := json.Marshal(map[string]string{"logonName": logonName})
	if err != nil {
		return 0, fmt.Errorf("marshaling logon name: %w", err)
	}
	res, err := c.apiCall(ctx, http.MethodPost, c.apiURL("web/ensureuser"), contentTypeVerbose,
		bytes.NewReader(body), map[string]string{
			"X-RequestDigest": digest,
		})
	if err != nil {
		return 0, err
	}
	defer closeBodySafely(res.Body, c.logger, "ensure user")

	var payload ensureUserResponse
	if err := decodeBody(res.Body, &payload, "ensure user"); err != nil {
		return 0, err
	}
	return payload.D.ID, nil
}

// GrantPermission gives the principal behind logonName the role identified
// by roleDefinitionID on a document. The item's inheritance is broken first
// (copying existing assignments) so the grant applies to this item alone.
func (c *Client) GrantPermission(ctx context.Context, filePath, logonName string, roleDefinitionID int) error {
	principalID, err := c.EnsureUser(ctx, logonName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}

	if err := c.BreakRoleInheritance(ctx, filePath); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}

	digest, err := c.requestDigest(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}

	grantURL := c.fileResourceURL(filePath) + fmt.Sprintf(
		"/ListItemAllFields/roleassignments/addroleassignment(principalid=%d,roledefid=%d)",
		principalID, roleDefinitionID)
	res, err := c.apiCall(ctx, http.MethodPost, grantURL, "", nil, map[string]string{
		"X-RequestDigest": digest,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}
	closeBodySafely(res.Body, c.logger, "permission grant")
	return nil
}

// RevokePermission removes the principal's role assignment from a document.
func (c *Client) RevokePermission(ctx context.Context, filePath string, principalID int) error {
	digest, err := c.requestDigest(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}

	revokeURL := c.fileResourceURL(filePath) + fmt.Sprintf(
		"/ListItemAllFields/roleassignments/removeroleassignment(principalid=%d)", principalID)
	res, err := c.apiCall(ctx, http.MethodPost, revokeURL, "", nil, map[string]string{
		"X-RequestDigest": digest,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}
	closeBodySafely(res.Body, c.logger, "permission revoke")
	return nil
}

// BreakRoleInheritance detaches the item's permissions from its parent,
// copying the currently inherited assignments.
func (c *Client) BreakRoleInheritance(ctx context.Context, filePath string) error {
	digest, err := c.requestDigest(ctx)
	if err != nil {
		return err
	}

	breakURL := c.fileResourceURL(filePath) +
		"/ListItemAllFields/breakroleinheritance(copyRoleAssignments=true,clearSubscopes=true)"
	res, err := c.apiCall(ctx, http.MethodPost, breakURL, "", nil, map[string]string{
		"X-RequestDigest": digest,
	})
	if err != nil {
		return err
	}
	closeBodySafely(res.Body, c.logger, "break role inheritance")
	return nil
}

// ResetRoleInheritance reattaches the item to its parent's permissions,
// discarding item-level assignments.
func (c *Client) ResetRoleInheritance(ctx context.Context, filePath string) error {
	digest, err := c.requestDigest(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}

	resetURL := c.fileResourceURL(filePath) + "/ListItemAllFields/resetroleinheritance"
	res, err := c.apiCall(ctx, http.MethodPost, resetURL, "", nil, map[string]string{
		"X-RequestDigest": digest,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionFailed, err)
	}
	closeBodySafely(res.Body, c.logger, "reset role inheritance")
	return nil
}
