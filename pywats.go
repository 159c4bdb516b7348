// Package pywats is a typed client for the WATS test data management REST
// API. API bundles one service per API area on top of a shared client:
//
//	api, err := pywats.New("https://acme.wats.com", client.WithToken(token))
//	if err != nil {
//		return err
//	}
//	unit, err := api.Production.GetUnit(ctx, "SN-0001", "PCBA-100")
package pywats

import (
	"github.com/olreppe/pyWATS-sub001/analytics"
	"github.com/olreppe/pyWATS-sub001/asset"
	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internalapi"
	"github.com/olreppe/pyWATS-sub001/process"
	"github.com/olreppe/pyWATS-sub001/product"
	"github.com/olreppe/pyWATS-sub001/production"
	"github.com/olreppe/pyWATS-sub001/report"
	"github.com/olreppe/pyWATS-sub001/rootcause"
	"github.com/olreppe/pyWATS-sub001/software"
)

// API groups the WATS services.
type API struct {
	Report     *report.Service
	Product    *product.Service
	Production *production.Service
	Asset      *asset.Service
	Software   *software.Service
	RootCause  *rootcause.Service
	Process    *process.Service
	Analytics  *analytics.Service
	Internal   *internalapi.Service

	c *client.Client
}

// New creates an API for the server at baseURL.
func New(baseURL string, opts ...client.Option) (*API, error) {
	c, err := client.New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return Wrap(c), nil
}

// NewFromConfig creates an API from loaded configuration.
func NewFromConfig(cfg *config.Config, opts ...client.Option) (*API, error) {
	c, err := client.NewFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return Wrap(c), nil
}

// Wrap builds an API around an existing client.
func Wrap(c *client.Client) *API {
	return &API{
		Report:     report.New(c),
		Product:    product.New(c),
		Production: production.New(c),
		Asset:      asset.New(c),
		Software:   software.New(c),
		RootCause:  rootcause.New(c),
		Process:    process.New(c),
		Analytics:  analytics.New(c),
		Internal:   internalapi.New(c),
		c:          c,
	}
}

// Client returns the shared client.
func (a *API) Client() *client.Client {
	return a.c
}
