// Package internalapi wraps the undocumented /api/internal endpoints used by
// the WATS web client. The server only answers them when the request carries
// a Referer header pointing at the server itself.
package internalapi

import (
	"net/http"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Service issues internal API calls.
type Service struct {
	c       *client.Client
	referer string
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c, referer: c.BaseURL()}
}

// request adds the Referer header to req.
func (s *Service) request(req client.Request) client.Request {
	h := http.Header{"Referer": {s.referer}}
	for k, v := range req.Header {
		h[k] = v
	}
	req.Header = h
	return req
}
