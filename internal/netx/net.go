// Package netx holds HTTP helpers shared by the CLI.
package netx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const defaultContentType = "application/octet-stream"

// UploadToPresignedURL PUTs data to a presigned object-storage URL. It uses a
// bare client: presigned requests must not carry other credentials.
func UploadToPresignedURL(ctx context.Context, url, contentType string, data []byte) error {
	if contentType == "" {
		contentType = defaultContentType
	}

	resp, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(url)
	if err != nil {
		return err
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status(), resp.String())
	}
	return nil
}
