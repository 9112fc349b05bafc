// Package sharepoint provides utility helpers shared across the SDK.
package sharepoint

import (
	"encoding/json"
	"fmt"
	"io"
)

// closeBodySafely closes an HTTP response body and logs any error. Intended
// for defer statements where the close error is not actionable.
func closeBodySafely(body io.Closer, logger Logger, operation string) {
	if err := body.Close(); err != nil {
		logger.Warnf("failed to close %s body: %v", operation, err)
	}
}

// decodeBody decodes a JSON response body into dest, wrapping failures with
// the operation name.
func decodeBody(body io.Reader, dest any, operation string) error {
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrDecodingFailed, operation, err)
	}
	return nil
}
