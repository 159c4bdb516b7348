// Package asset wraps the WATS Asset API: test equipment, fixtures and
// other assets with usage counters, calibration and maintenance tracking.
package asset

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues Asset API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
