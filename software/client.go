// Package software wraps the WATS Software distribution API: packages,
// their files and release status, zip uploads and virtual folders.
package software

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues Software API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
