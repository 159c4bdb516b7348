// Package rootcause wraps the WATS RootCause ticketing API.
package rootcause

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues RootCause API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
