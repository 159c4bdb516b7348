package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/asset"
	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/production"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a new configuration file."`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration with the token masked."`
}

type ConfigInitCmd struct {
	BaseURL     string `name:"base-url" required:"" help:"WATS server root, e.g. https://acme.wats.com."`
	Token       string `required:"" env:"WATS_TOKEN" help:"API token from the WATS control panel."`
	AllowWrites bool   `help:"Let the MCP server and call command send mutating requests."`
	Force       bool   `short:"f" help:"Overwrite an existing file."`
}

func (c *ConfigInitCmd) Run(g *Globals) error {
	path := g.ConfigFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := &config.Config{
		BaseURL:     c.BaseURL,
		Token:       c.Token,
		AllowWrites: c.AllowWrites,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.out, "wrote %s\n", path)
	return err
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	masked := *cfg
	if masked.Token != "" {
		masked.Token = "********"
	}
	return g.print(masked)
}

type ReportCmd struct {
	Query ReportQueryCmd `cmd:"" help:"List report headers."`
	Get   ReportGetCmd   `cmd:"" help:"Download a report."`
}

type ReportQueryCmd struct {
	Filter  string `short:"f" help:"OData $filter expression."`
	Top     int    `default:"20" help:"Max headers to return."`
	OrderBy string `name:"orderby" default:"start desc" help:"OData $orderby expression."`
}

func (c *ReportQueryCmd) Run(g *Globals) error {
	api, err := g.api()
	if err != nil {
		return err
	}
	headers, err := api.Report.QueryHeaders(g.ctx, client.ODataQuery{
		Filter:  c.Filter,
		Top:     c.Top,
		OrderBy: c.OrderBy,
	})
	if err != nil {
		return err
	}
	return g.print(headers)
}

type ReportGetCmd struct {
	ID     string `arg:"" help:"Report id."`
	Format string `enum:"wsjf,wsxf" default:"wsjf" help:"Report format: wsjf (JSON) or wsxf (XML)."`
}

func (c *ReportGetCmd) Run(g *Globals) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid report id: %w", err)
	}
	api, err := g.api()
	if err != nil {
		return err
	}
	if c.Format == "wsxf" {
		doc, err := api.Report.GetWSXF(g.ctx, id)
		if err != nil {
			return err
		}
		return g.write(doc)
	}
	r, err := api.Report.GetWSJF(g.ctx, id)
	if err != nil {
		return err
	}
	return g.print(r)
}

type UnitCmd struct {
	Get    UnitGetCmd    `cmd:"" help:"Show a unit."`
	Verify UnitVerifyCmd `cmd:"" help:"Check a unit against its process route."`
}

type UnitGetCmd struct {
	SerialNumber string `arg:"" help:"Unit serial number."`
	PartNumber   string `arg:"" help:"Unit part number."`
}

func (c *UnitGetCmd) Run(g *Globals) error {
	api, err := g.api()
	if err != nil {
		return err
	}
	u, err := api.Production.GetUnit(g.ctx, c.SerialNumber, c.PartNumber)
	if err != nil {
		return err
	}
	return g.print(u)
}

type UnitVerifyCmd struct {
	SerialNumber string `arg:"" help:"Unit serial number."`
	PartNumber   string `arg:"" help:"Unit part number."`
	Revision     string `short:"r" help:"Product revision."`
}

func (c *UnitVerifyCmd) Run(g *Globals) error {
	api, err := g.api()
	if err != nil {
		return err
	}
	v, err := api.Production.GetUnitVerification(g.ctx, production.UnitQuery{
		SerialNumber: c.SerialNumber,
		PartNumber:   c.PartNumber,
		Revision:     c.Revision,
	})
	if err != nil {
		return err
	}
	return g.print(v)
}

type ProductCmd struct {
	Get ProductGetCmd `cmd:"" help:"Show a product."`
}

type ProductGetCmd struct {
	PartNumber string `arg:"" help:"Part number."`
}

func (c *ProductGetCmd) Run(g *Globals) error {
	api, err := g.api()
	if err != nil {
		return err
	}
	p, err := api.Product.Get(g.ctx, c.PartNumber)
	if err != nil {
		return err
	}
	return g.print(p)
}

type AssetCmd struct {
	Status AssetStatusCmd `cmd:"" help:"Show usage counters and alarm state."`
}

type AssetStatusCmd struct {
	Asset string `arg:"" help:"Asset id or serial number."`
}

func (c *AssetStatusCmd) Run(g *Globals) error {
	api, err := g.api()
	if err != nil {
		return err
	}
	ref := asset.BySerial(c.Asset)
	if id, err := uuid.Parse(c.Asset); err == nil {
		ref = asset.ByID(id)
	}
	st, err := api.Asset.Status(g.ctx, ref)
	if err != nil {
		return err
	}
	return g.print(st)
}

type CallCmd struct {
	Method string   `arg:"" help:"HTTP method."`
	Path   string   `arg:"" help:"API path; the group prefix is added when missing."`
	Group  string   `short:"g" enum:"public,internal" default:"public" help:"API group."`
	Query  []string `short:"q" help:"Query parameter as key=value. Repeatable."`
	Data   string   `short:"d" help:"JSON request body."`
}

func (c *CallCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	method := strings.ToUpper(c.Method)
	if method != http.MethodGet && !cfg.AllowWrites {
		return fmt.Errorf("%s is not allowed: writes are disabled (set allow_writes in the configuration)", method)
	}
	path, err := config.APIPath(c.Group, c.Path)
	if err != nil {
		return err
	}

	query := make(url.Values)
	for _, kv := range c.Query {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid query parameter %q, want key=value", kv)
		}
		query.Add(k, v)
	}

	var body client.Body
	if c.Data != "" {
		body = client.Raw(client.ContentTypeJSON, []byte(c.Data))
	}

	api, err := g.api()
	if err != nil {
		return err
	}
	cl := api.Client()
	if c.Group == config.GroupInternal {
		cl = cl.WithHeaders(map[string]string{"Referer": cl.BaseURL()})
	}

	resp, err := cl.Raw(g.ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if resp.Parsed == nil || len(*resp.Parsed) == 0 {
		_, err := fmt.Fprintf(g.out, "status: %d\n", resp.StatusCode)
		return err
	}
	return g.write(*resp.Parsed)
}
