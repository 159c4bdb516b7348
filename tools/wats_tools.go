package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	pywats "github.com/olreppe/pyWATS-sub001"
	"github.com/olreppe/pyWATS-sub001/analytics"
	"github.com/olreppe/pyWATS-sub001/asset"
	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/production"
	"github.com/olreppe/pyWATS-sub001/rootcause"
)

const defaultTop = 50

func registerWATSTools(s *server.MCPServer, api *pywats.API, allowWrites bool) {
	// wats_query_reports
	s.AddTool(
		mcp.NewTool("wats_query_reports",
			mcp.WithDescription("Query test report headers with an OData filter, newest first"),
			mcp.WithString("filter", mcp.Description("OData $filter, e.g. \"partNumber eq 'PCBA-100' and result eq 'Failed'\"")),
			mcp.WithString("top", mcp.Description("Max headers to return (default 50)")),
			mcp.WithString("orderby", mcp.Description("OData $orderby (default \"start desc\")")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			top, err := parseInt(mcp.ParseString(req, "top", ""), defaultTop)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			headers, err := api.Report.QueryHeaders(ctx, client.ODataQuery{
				Filter:  mcp.ParseString(req, "filter", ""),
				Top:     top,
				OrderBy: mcp.ParseString(req, "orderby", "start desc"),
			})
			if err != nil {
				return toolError("query reports", err), nil
			}
			return jsonResult(headers)
		},
	)

	// wats_get_report
	s.AddTool(
		mcp.NewTool("wats_get_report",
			mcp.WithDescription("Get a full test report (WSJF) by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Report id (UUID)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := uuid.Parse(mcp.ParseString(req, "id", ""))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid report id: %v", err)), nil
			}
			r, err := api.Report.GetWSJF(ctx, id)
			if err != nil {
				return toolError("get report", err), nil
			}
			return jsonResult(r)
		},
	)

	// wats_get_unit
	s.AddTool(
		mcp.NewTool("wats_get_unit",
			mcp.WithDescription("Get a production unit by serial number and part number"),
			mcp.WithString("serial_number", mcp.Required(), mcp.Description("Unit serial number")),
			mcp.WithString("part_number", mcp.Required(), mcp.Description("Unit part number")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			u, err := api.Production.GetUnit(ctx,
				mcp.ParseString(req, "serial_number", ""),
				mcp.ParseString(req, "part_number", ""))
			if err != nil {
				return toolError("get unit", err), nil
			}
			return jsonResult(u)
		},
	)

	// wats_verify_unit
	s.AddTool(
		mcp.NewTool("wats_verify_unit",
			mcp.WithDescription("Check a unit against its process route and report which operations passed, failed or are missing"),
			mcp.WithString("serial_number", mcp.Required(), mcp.Description("Unit serial number")),
			mcp.WithString("part_number", mcp.Required(), mcp.Description("Unit part number")),
			mcp.WithString("revision", mcp.Description("Product revision")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := api.Production.GetUnitVerification(ctx, production.UnitQuery{
				SerialNumber: mcp.ParseString(req, "serial_number", ""),
				PartNumber:   mcp.ParseString(req, "part_number", ""),
				Revision:     mcp.ParseString(req, "revision", ""),
			})
			if err != nil {
				return toolError("verify unit", err), nil
			}
			return jsonResult(v)
		},
	)

	if allowWrites {
		// wats_set_unit_phase
		s.AddTool(
			mcp.NewTool("wats_set_unit_phase",
				mcp.WithDescription("Move a unit to another production phase"),
				mcp.WithString("serial_number", mcp.Required(), mcp.Description("Unit serial number")),
				mcp.WithString("part_number", mcp.Required(), mcp.Description("Unit part number")),
				mcp.WithString("phase", mcp.Required(), mcp.Description("Phase name (e.g. \"Finalized\", \"Scrapped\") or numeric phase id")),
				mcp.WithString("comment", mcp.Description("Comment stored with the phase change")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				phase, err := parsePhase(mcp.ParseString(req, "phase", ""))
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				change := production.PhaseChange{
					SerialNumber: mcp.ParseString(req, "serial_number", ""),
					PartNumber:   mcp.ParseString(req, "part_number", ""),
					Phase:        phase,
					Comment:      mcp.ParseString(req, "comment", ""),
				}
				if err := api.Production.SetUnitPhase(ctx, change); err != nil {
					return toolError("set unit phase", err), nil
				}
				return mcp.NewToolResultText(fmt.Sprintf("Unit %s moved to %s", change.SerialNumber, phase)), nil
			},
		)
	}

	// wats_list_assets
	s.AddTool(
		mcp.NewTool("wats_list_assets",
			mcp.WithDescription("List assets (fixtures, instruments, stations) with an optional OData filter"),
			mcp.WithString("filter", mcp.Description("OData $filter, e.g. \"state eq 1\"")),
			mcp.WithString("top", mcp.Description("Max assets to return (default 50)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			top, err := parseInt(mcp.ParseString(req, "top", ""), defaultTop)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			assets, err := api.Asset.List(ctx, client.ODataQuery{
				Filter: mcp.ParseString(req, "filter", ""),
				Top:    top,
			})
			if err != nil {
				return toolError("list assets", err), nil
			}
			return jsonResult(assets)
		},
	)

	// wats_asset_status
	s.AddTool(
		mcp.NewTool("wats_asset_status",
			mcp.WithDescription("Get the usage counters and alarm state of an asset"),
			mcp.WithString("asset", mcp.Required(), mcp.Description("Asset id (UUID) or serial number")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			st, err := api.Asset.Status(ctx, assetRef(mcp.ParseString(req, "asset", "")))
			if err != nil {
				return toolError("get asset status", err), nil
			}
			return jsonResult(st)
		},
	)

	// wats_list_tickets
	s.AddTool(
		mcp.NewTool("wats_list_tickets",
			mcp.WithDescription("List root cause tickets, by default the active ones"),
			mcp.WithString("status", mcp.Description("Comma-separated statuses: Open, InProgress, OnHold, Solved, Closed, Archived (default active)")),
			mcp.WithString("search", mcp.Description("Free-text search")),
			mcp.WithString("top", mcp.Description("Max tickets to return")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			status, err := parseTicketStatus(mcp.ParseString(req, "status", ""))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			top, err := parseInt(mcp.ParseString(req, "top", ""), 0)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tickets, err := api.RootCause.Tickets(ctx, rootcause.TicketQuery{
				Status: status,
				Search: mcp.ParseString(req, "search", ""),
				Top:    top,
			})
			if err != nil {
				return toolError("list tickets", err), nil
			}
			return jsonResult(tickets)
		},
	)

	// wats_yield
	s.AddTool(
		mcp.NewTool("wats_yield",
			filterOptions("Yield statistics grouped by the chosen dimensions and period",
				mcp.WithString("dimensions", mcp.Description("Grouping dimensions, e.g. \"partNumber;stationName\"")),
			)...,
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			f, err := parseFilter(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			f.Dimensions = mcp.ParseString(req, "dimensions", "")
			y, err := api.Analytics.DynamicYield(ctx, f)
			if err != nil {
				return toolError("get yield", err), nil
			}
			return jsonResult(y)
		},
	)

	// wats_top_failed
	s.AddTool(
		mcp.NewTool("wats_top_failed",
			filterOptions("The test steps that fail most often",
				mcp.WithString("top_count", mcp.Description("Number of steps to return (default 10)")),
			)...,
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			f, err := parseFilter(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if f.TopCount, err = parseInt(mcp.ParseString(req, "top_count", ""), 10); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			steps, err := api.Analytics.TopFailed(ctx, f)
			if err != nil {
				return toolError("get top failed steps", err), nil
			}
			return jsonResult(steps)
		},
	)
}

// filterOptions returns the tool options shared by the statistics tools.
func filterOptions(description string, extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("part_number", mcp.Description("Part number")),
		mcp.WithString("product_group", mcp.Description("Product group")),
		mcp.WithString("station_name", mcp.Description("Test station")),
		mcp.WithString("test_operation", mcp.Description("Test operation code or name")),
		mcp.WithString("date_from", mcp.Description("Start of the period (RFC 3339 or YYYY-MM-DD)")),
		mcp.WithString("date_to", mcp.Description("End of the period (RFC 3339 or YYYY-MM-DD)")),
		mcp.WithString("date_grouping", mcp.Description("YEAR, QUARTER, MONTH, WEEK, DAY or HOUR")),
		mcp.WithString("period_count", mcp.Description("Number of periods back from now")),
	}
	return append(opts, extra...)
}

func parseFilter(req mcp.CallToolRequest) (analytics.Filter, error) {
	f := analytics.Filter{
		PartNumber:    mcp.ParseString(req, "part_number", ""),
		ProductGroup:  mcp.ParseString(req, "product_group", ""),
		StationName:   mcp.ParseString(req, "station_name", ""),
		TestOperation: mcp.ParseString(req, "test_operation", ""),
		DateGrouping:  analytics.DateGrouping(strings.ToUpper(mcp.ParseString(req, "date_grouping", ""))),
	}

	var err error
	if f.PeriodCount, err = parseInt(mcp.ParseString(req, "period_count", ""), 0); err != nil {
		return f, err
	}
	if f.DateFrom, err = parseDate(mcp.ParseString(req, "date_from", "")); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate(mcp.ParseString(req, "date_to", "")); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(s string) (*client.DateTime, error) {
	if s == "" {
		return nil, nil
	}
	d, err := client.ParseDateTime(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// parsePhase accepts a phase name, case-insensitive, or its numeric id.
func parsePhase(s string) (production.Phase, error) {
	if n, err := strconv.Atoi(s); err == nil {
		p := production.Phase(n)
		if p.String() == "Unknown" {
			return 0, fmt.Errorf("unknown phase %d", n)
		}
		return p, nil
	}
	for p := production.PhaseUnderProduction; p <= production.PhaseShipped; p <<= 1 {
		if strings.EqualFold(p.String(), s) || strings.EqualFold(strings.ReplaceAll(p.String(), " ", ""), s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func parseTicketStatus(s string) (rootcause.Status, error) {
	if s == "" {
		return rootcause.StatusActive, nil
	}
	var status rootcause.Status
	for _, name := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		name = strings.TrimSpace(name)
		found := false
		for st := rootcause.StatusOpen; st <= rootcause.StatusArchived; st <<= 1 {
			if strings.EqualFold(st.String(), name) {
				status |= st
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown ticket status %q", name)
		}
	}
	return status, nil
}

func assetRef(s string) asset.Ref {
	if id, err := uuid.Parse(s); err == nil {
		return asset.ByID(id)
	}
	return asset.BySerial(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
}
