package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
)

func registerAPICallTool(s *server.MCPServer, c *client.Client, allowWrites bool) {
	s.AddTool(
		mcp.NewTool("call_api",
			mcp.WithDescription("Make an authenticated call to any WATS API endpoint. Returns the JSON response. Use fields/limit/filter to reduce response size. Only GET is allowed unless writes are enabled in the configuration."),
			mcp.WithString("method", mcp.Description("HTTP method (default: GET)")),
			mcp.WithString("path", mcp.Required(), mcp.Description("API path (e.g. /api/Report/Query/Header or Report/Query/Header). The group prefix is added when missing.")),
			mcp.WithString("group", mcp.Description("API group (public or internal, default public)")),
			mcp.WithString("query", mcp.Description("Query parameters as JSON object (e.g. {\"$top\": 10, \"$filter\": \"partNumber eq 'PCBA-100'\"})")),
			mcp.WithString("body", mcp.Description("Request body as JSON string")),
			mcp.WithString("fields", mcp.Description("Comma-separated fields to include in response. Supports nested fields with dot notation (e.g. \"serialNumber,result,uut.operator\")")),
			mcp.WithString("filter", mcp.Description("Filter array results. Format: \"field:op:value\". Ops: contains, eq, ne, gt, lt (e.g. \"result:eq:F\", \"execTime:gt:30\")")),
			mcp.WithString("limit", mcp.Description("Max number of items to return from array responses")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCallAPI(ctx, req, c, allowWrites)
		},
	)
}

func handleCallAPI(ctx context.Context, req mcp.CallToolRequest, c *client.Client, allowWrites bool) (*mcp.CallToolResult, error) {
	method := strings.ToUpper(mcp.ParseString(req, "method", http.MethodGet))
	path := mcp.ParseString(req, "path", "")
	group := mcp.ParseString(req, "group", config.GroupPublic)
	queryStr := mcp.ParseString(req, "query", "")
	bodyStr := mcp.ParseString(req, "body", "")
	fieldsStr := mcp.ParseString(req, "fields", "")
	filterStr := mcp.ParseString(req, "filter", "")
	limitStr := mcp.ParseString(req, "limit", "")

	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if method != http.MethodGet && !allowWrites {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not allowed: writes are disabled (set allow_writes in the configuration)", method)), nil
	}

	path, err := config.APIPath(group, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if group == config.GroupInternal {
		c = c.WithHeaders(map[string]string{"Referer": c.BaseURL()})
	}

	var query url.Values
	if queryStr != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(queryStr), &raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid query JSON: %v", err)), nil
		}
		query = make(url.Values)
		for k, v := range raw {
			query.Set(k, fmt.Sprintf("%v", v))
		}
	}

	var body client.Body
	if bodyStr != "" {
		if !json.Valid([]byte(bodyStr)) {
			return mcp.NewToolResultError("invalid body JSON"), nil
		}
		body = client.Raw(client.ContentTypeJSON, []byte(bodyStr))
	}

	resp, err := c.Raw(ctx, method, path, query, body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("request failed: %v", err)), nil
	}

	var respBody []byte
	if resp.Parsed != nil {
		respBody = *resp.Parsed
	}
	if len(respBody) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("status: %d", resp.StatusCode)), nil
	}
	if !gjson.ValidBytes(respBody) {
		return mcp.NewToolResultText(fmt.Sprintf("status: %d\n%s", resp.StatusCode, string(respBody))), nil
	}

	var out any
	if fieldsStr != "" || filterStr != "" || limitStr != "" {
		out = processResponse(gjson.ParseBytes(respBody), fieldsStr, filterStr, limitStr)
	} else {
		out = gjson.ParseBytes(respBody).Value()
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

// processResponse applies filter, limit, and fields to the API response.
func processResponse(resp gjson.Result, fieldsStr, filterStr, limitStr string) any {
	if !resp.IsArray() {
		if resp.IsObject() && fieldsStr != "" {
			return pickFields(resp, parseFields(fieldsStr))
		}
		return resp.Value()
	}

	arr := resp.Array()

	if filterStr != "" {
		arr = applyFilter(arr, filterStr)
	}

	if limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(arr) {
			arr = arr[:limit]
		}
	}

	fields := parseFields(fieldsStr)
	result := make([]any, len(arr))
	for i, item := range arr {
		if len(fields) > 0 && item.IsObject() {
			result[i] = pickFields(item, fields)
		} else {
			result[i] = item.Value()
		}
	}
	return result
}

// parseFields splits a comma-separated fields string.
func parseFields(s string) []string {
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// pickFields extracts only the specified fields from an object. Nested
// fields use dot notation and keep their nesting in the result.
func pickFields(obj gjson.Result, fields []string) map[string]any {
	result := make(map[string]any)
	for _, f := range fields {
		v := obj.Get(f)
		if !v.Exists() {
			continue
		}
		setPath(result, strings.Split(f, "."), v.Value())
	}
	return result
}

func setPath(m map[string]any, keys []string, v any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = v
}

// applyFilter filters array items. Format: "field:op:value"
// Ops: contains, eq, ne, gt, lt
func applyFilter(arr []gjson.Result, filterStr string) []gjson.Result {
	parts := strings.SplitN(filterStr, ":", 3)
	if len(parts) != 3 {
		return arr
	}
	field, op, value := parts[0], parts[1], parts[2]

	var result []gjson.Result
	for _, item := range arr {
		if !item.IsObject() {
			continue
		}
		fieldVal := item.Get(field)
		if !fieldVal.Exists() || fieldVal.Type == gjson.Null {
			continue
		}
		if matchFilter(fieldVal, op, value) {
			result = append(result, item)
		}
	}
	return result
}

// matchFilter checks if a value matches the filter operation.
func matchFilter(fieldVal gjson.Result, op, value string) bool {
	fieldStr := fieldVal.String()

	switch op {
	case "contains":
		return strings.Contains(strings.ToLower(fieldStr), strings.ToLower(value))
	case "eq":
		return strings.EqualFold(fieldStr, value)
	case "ne":
		return !strings.EqualFold(fieldStr, value)
	case "gt", "lt":
		fv, err1 := strconv.ParseFloat(fieldStr, 64)
		cv, err2 := strconv.ParseFloat(value, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		if op == "gt" {
			return fv > cv
		}
		return fv < cv
	}
	return false
}
