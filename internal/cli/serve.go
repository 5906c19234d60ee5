package cli

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/internal/server"
	"github.com/matzehuels/lineage/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve people and trees over HTTP",
		Long: `Serve loads the people snapshot and answers JSON requests for people,
trees and images. POST /api/refresh reloads the snapshot without a restart.
Prometheus metrics are exposed on /metrics.`,
		Example: `  lineage serve
  lineage serve --addr 127.0.0.1:9000
  lineage --cache redis://localhost:6379/0 serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cmd.Flags().Changed("addr"))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func (c *CLI) runServe(ctx context.Context, addr string, addrSet bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if !addrSet && cfg.Server.Addr != "" {
		addr = cfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	runner, resolver, err := c.newRunnerWithImages(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Runner:   runner,
		Gallery:  resolver,
		Defaults: cfg.TreeOptions(""),
		Gatherer: reg,
		Logger:   c.Logger,
	})

	prog := newProgress(c.Logger)
	data, err := srv.Load(ctx, false)
	if err != nil {
		// Serve anyway; /api/refresh can recover once the source is back.
		printWarning("Initial fetch failed: %v", err)
	} else {
		prog.done("Loaded people")
		printSuccess("Serving %d people", data.Repo.Len())
	}
	printKeyValue("Source", runner.Source.Name())
	printInfo("Listening on %s", StyleLink.Render(serverURL(addr)))

	return srv.ListenAndServe(ctx, addr)
}
