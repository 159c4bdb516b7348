package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/openapi"
)

func registerDocTools(s *server.MCPServer, c *client.Client, store *openapi.Store) {
	// list_api_groups
	s.AddTool(
		mcp.NewTool("list_api_groups",
			mcp.WithDescription("List the WATS API groups (public, internal) with their route prefix and number of documented endpoints"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListGroups(ctx, c, store)
		},
	)

	// list_endpoints
	s.AddTool(
		mcp.NewTool("list_endpoints",
			mcp.WithDescription("List API endpoints for a group, optionally filtered by tag or HTTP method"),
			mcp.WithString("group", mcp.Description("API group (public or internal, default public)")),
			mcp.WithString("tag", mcp.Description("Filter by API tag, e.g. Report, Production, Asset")),
			mcp.WithString("method", mcp.Description("Filter by HTTP method (GET, POST, PUT, DELETE)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			group := mcp.ParseString(req, "group", config.GroupPublic)
			tag := mcp.ParseString(req, "tag", "")
			method := strings.ToUpper(mcp.ParseString(req, "method", ""))
			return handleListEndpoints(ctx, store, group, tag, method)
		},
	)

	// search_api
	s.AddTool(
		mcp.NewTool("search_api",
			mcp.WithDescription("Full-text search across the WATS API documents. Searches endpoint paths, operation ids, summaries, descriptions, and tags."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("group", mcp.Description("Limit search to one API group")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query := mcp.ParseString(req, "query", "")
			group := mcp.ParseString(req, "group", "")
			return handleSearchAPI(ctx, store, query, group)
		},
	)

	// get_endpoint_details
	s.AddTool(
		mcp.NewTool("get_endpoint_details",
			mcp.WithDescription("Get full details for a WATS API endpoint including parameters, request body schema, and responses"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Endpoint path (e.g. /api/Report/WSJF)")),
			mcp.WithString("method", mcp.Description("HTTP method (defaults to GET)")),
			mcp.WithString("group", mcp.Description("API group (default public)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			group := mcp.ParseString(req, "group", config.GroupPublic)
			path := mcp.ParseString(req, "path", "")
			method := strings.ToUpper(mcp.ParseString(req, "method", "GET"))
			return handleGetEndpointDetails(ctx, store, group, path, method)
		},
	)

	// refresh_api_specs
	s.AddTool(
		mcp.NewTool("refresh_api_specs",
			mcp.WithDescription("Force re-fetch and re-parse the API documents for all groups or a specific group"),
			mcp.WithString("group", mcp.Description("API group to refresh (omit for all)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			group := mcp.ParseString(req, "group", "")
			return handleRefreshSpecs(ctx, store, group)
		},
	)
}

func handleListGroups(_ context.Context, c *client.Client, store *openapi.Store) (*mcp.CallToolResult, error) {
	type groupInfo struct {
		Name      string `json:"name"`
		Prefix    string `json:"prefix"`
		BaseURL   string `json:"base_url"`
		HasSpec   bool   `json:"has_spec"`
		Endpoints int    `json:"endpoints,omitempty"`
	}

	names := make([]string, 0, len(config.DefaultAPIPrefixes))
	for name := range config.DefaultAPIPrefixes {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]groupInfo, 0, len(names))
	for _, name := range names {
		info := groupInfo{
			Name:    name,
			Prefix:  config.DefaultAPIPrefixes[name],
			BaseURL: c.BaseURL(),
		}
		if idx := store.GetIndex(name); idx != nil {
			info.HasSpec = true
			info.Endpoints = idx.Count()
		}
		groups = append(groups, info)
	}

	data, _ := json.MarshalIndent(groups, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleListEndpoints(_ context.Context, store *openapi.Store, group, tag, method string) (*mcp.CallToolResult, error) {
	idx := store.GetIndex(group)
	if idx == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no API document loaded for %q, try refresh_api_specs first", group)), nil
	}

	endpoints := idx.Filter(tag, method)
	if len(endpoints) == 0 {
		return mcp.NewToolResultText("No endpoints match the given filters."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s API Endpoints (%d)\n\n", group, len(endpoints))

	tagMap := make(map[string][]openapi.EndpointSummary)
	for _, ep := range endpoints {
		t := ep.Tag
		if t == "" {
			t = "untagged"
		}
		tagMap[t] = append(tagMap[t], ep)
	}
	tags := make([]string, 0, len(tagMap))
	for t := range tagMap {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	for _, t := range tags {
		fmt.Fprintf(&sb, "## %s\n", t)
		for _, ep := range tagMap[t] {
			fmt.Fprintf(&sb, "- %s %s: %s\n", ep.Method, ep.Path, ep.Summary)
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleSearchAPI(_ context.Context, store *openapi.Store, query, group string) (*mcp.CallToolResult, error) {
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	results := store.Search(query, group)
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search results for %q (%d matches)\n\n", query, len(results))
	for _, r := range results {
		fmt.Fprintf(&sb, "**[%s]** %s %s\n", r.Group, r.Method, r.Path)
		if r.Summary != "" {
			fmt.Fprintf(&sb, "  %s\n", r.Summary)
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetEndpointDetails(_ context.Context, store *openapi.Store, group, path, method string) (*mcp.CallToolResult, error) {
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	idx := store.GetIndex(group)
	if idx == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no API document loaded for %q", group)), nil
	}

	detail, err := idx.GetDetail(path, method)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleRefreshSpecs(ctx context.Context, store *openapi.Store, group string) (*mcp.CallToolResult, error) {
	if group != "" {
		if err := store.Refresh(ctx, group); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to refresh %s: %v", group, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Refreshed API document for %s", group)), nil
	}

	errs := store.RefreshAll(ctx)
	if len(errs) > 0 {
		groups := make([]string, 0, len(errs))
		for g := range errs {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		var sb strings.Builder
		sb.WriteString("Refresh completed with errors:\n")
		for _, g := range groups {
			fmt.Fprintf(&sb, "- %s: %v\n", g, errs[g])
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	return mcp.NewToolResultText("All API documents refreshed successfully"), nil
}
