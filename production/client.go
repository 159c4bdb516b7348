// Package production wraps the WATS Production API: units and their
// lifecycle phase, parent/child assemblies, serial number allocation and
// batches.
package production

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues Production API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
