// Package tools exposes the WATS API to MCP clients.
package tools

import (
	"github.com/mark3labs/mcp-go/server"

	pywats "github.com/olreppe/pyWATS-sub001"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/openapi"
)

// RegisterAll registers all tools with the MCP server. Tools that change
// server data are only registered when cfg.AllowWrites is set.
func RegisterAll(s *server.MCPServer, cfg *config.Config, api *pywats.API, store *openapi.Store) {
	c := api.Client().WithRaiseOnUnexpectedStatus(true)

	registerDocTools(s, c, store)
	registerAPICallTool(s, c, cfg.AllowWrites)
	registerWATSTools(s, pywats.Wrap(c), cfg.AllowWrites)
}
