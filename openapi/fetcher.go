package openapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Fetch downloads the API document at path on the WATS server. The caller
// decides whether the result is worth caching.
func Fetch(ctx context.Context, c *client.Client, path string) ([]byte, error) {
	resp, err := c.Raw(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching api doc %s: %w", path, err)
	}
	if resp.Parsed == nil {
		return nil, fmt.Errorf("fetching api doc %s: HTTP %d", path, resp.StatusCode)
	}
	return *resp.Parsed, nil
}
