// Package analytics wraps the statistics endpoints of the WATS App API:
// yield, repair, failure and measurement analyses driven by a shared
// filter.
package analytics

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues App API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
