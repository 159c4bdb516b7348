// Command wats-mcp serves the WATS API to MCP clients over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	pywats "github.com/olreppe/pyWATS-sub001"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internal/logging"
	"github.com/olreppe/pyWATS-sub001/openapi"
	"github.com/olreppe/pyWATS-sub001/tools"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ~/.config/pywats/config.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol; the logger writes to stderr.
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetGlobal(logger)
	defer logging.Sync()

	api, err := pywats.NewFromConfig(cfg)
	if err != nil {
		logging.Error("creating client", zap.Error(err))
		return err
	}
	logging.Info("loaded config", zap.String("base_url", api.Client().BaseURL()), zap.Bool("allow_writes", cfg.AllowWrites))

	store, err := openapi.NewStore(api.Client(), cfg)
	if err != nil {
		logging.Error("creating api doc store", zap.Error(err))
		return err
	}
	store.LoadAll(context.Background())

	s := server.NewMCPServer(
		"wats",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("Tools for the WATS test data management server. Use search_api and get_endpoint_details to browse the public and internal API documents, call_api to make authenticated requests, and the wats_* tools for common lookups: test reports, production units, assets, root cause tickets, and yield statistics."),
	)

	tools.RegisterAll(s, cfg, api, store)

	logging.Info("starting wats MCP server (stdio)")

	if err := server.ServeStdio(s); err != nil {
		logging.Error("server error", zap.Error(err))
		return err
	}
	return nil
}
