// Package report wraps the WATS Report API: querying report headers and
// reading or submitting full test reports in WSJF (JSON) and WSXF (XML).
package report

import "github.com/olreppe/pyWATS-sub001/client"

// Service issues Report API calls through a shared client.
type Service struct {
	c *client.Client
}

// New returns a Report service bound to c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}
