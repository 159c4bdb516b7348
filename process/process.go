// Package process wraps the WATS process (operation type) list.
package process

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/olreppe/pyWATS-sub001/client"
)

var listEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/App/Processes"}

// Process is a test, repair or WIP operation type.
type Process struct {
	Code              int    `json:"code"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsTestOperation   bool   `json:"isTestOperation"`
	IsRepairOperation bool   `json:"isRepairOperation"`
	IsWIPOperation    bool   `json:"isWipOperation"`
	ProcessIndex      int    `json:"processIndex"`
	State             int    `json:"state"`
}

// Include selects which kinds of processes List returns. The zero value
// returns active test operations only.
type Include struct {
	TestOperations   bool `schema:"includeTestOperations"`
	RepairOperations bool `schema:"includeRepairOperations"`
	WIPOperations    bool `schema:"includeWipOperations"`
	Inactive         bool `schema:"includeInactiveProcesses"`
}

// All includes every process kind, inactive ones too.
var All = Include{TestOperations: true, RepairOperations: true, WIPOperations: true, Inactive: true}

// Service issues process list calls.
type Service struct {
	c *client.Client
}

// New returns a Service that issues its calls through c.
func New(c *client.Client) *Service {
	return &Service{c: c}
}

// List returns the processes selected by inc.
func (s *Service) List(ctx context.Context, inc Include) ([]Process, error) {
	return client.ParsedList(s.ListDetailed(ctx, inc))
}

// ListDetailed is like List but returns the full response.
func (s *Service) ListDetailed(ctx context.Context, inc Include) (*client.Response[[]Process], error) {
	if inc == (Include{}) {
		inc.TestOperations = true
	}
	return client.Do[[]Process](ctx, s.c, listEndpoint, client.Request{Query: inc})
}

// Find returns the process whose code or name (case-insensitive) matches key.
func Find(processes []Process, key string) (Process, bool) {
	for _, p := range processes {
		if strings.EqualFold(p.Name, key) || strconv.Itoa(p.Code) == key {
			return p, true
		}
	}
	return Process{}, false
}
