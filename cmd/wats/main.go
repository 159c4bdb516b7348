// Command wats is a command line client for the WATS REST API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	pywats "github.com/olreppe/pyWATS-sub001"
	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internal/logging"
)

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Config  ConfigCmd  `cmd:"" help:"Create or show the configuration file."`
	Report  ReportCmd  `cmd:"" help:"Query and download test reports."`
	Unit    UnitCmd    `cmd:"" help:"Look up production units."`
	Product ProductCmd `cmd:"" help:"Look up products."`
	Asset   AssetCmd   `cmd:"" help:"Inspect assets."`
	Call    CallCmd    `cmd:"" help:"Call any API endpoint."`
}

// Globals holds flags shared by every command.
type Globals struct {
	ConfigFile string `name:"config" short:"c" help:"Path to config.yaml (default: ~/.config/pywats/config.yaml)." type:"path"`

	ctx context.Context
	out io.Writer
	cfg *config.Config
}

func (g *Globals) config() (*config.Config, error) {
	if g.cfg != nil {
		return g.cfg, nil
	}
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logging.SetGlobal(logger)
	g.cfg = cfg
	return cfg, nil
}

// api returns a client that raises on unexpected statuses so every failure
// reaches the user.
func (g *Globals) api() (*pywats.API, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	return pywats.NewFromConfig(cfg, client.WithRaiseOnUnexpectedStatus(true))
}

func (g *Globals) print(v any) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *Globals) write(data []byte) error {
	_, err := g.out.Write(data)
	return err
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintln(g.out, Version())
	return err
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("wats"),
		kong.Description("Command line client for the WATS test data management API."),
		kong.UsageOnError(),
	)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cli := &CLI{}
	parser, err := newParser(cli)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cli.Globals.ctx = ctx
	cli.Globals.out = out
	defer logging.Sync()
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "wats: %v\n", err)
		stop()
		os.Exit(1)
	}
}
