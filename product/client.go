// Package product wraps the WATS Product API: products, revisions, bills of
// materials and the product group and vendor catalogues.
package product

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues Product API calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
