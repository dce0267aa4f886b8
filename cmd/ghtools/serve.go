package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/ghtools/config"
)

type serveOptions struct {
	configPath string
	envFiles   []string
	transport  string
	addr       string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long:  `Start the MCP server on stdio (the default) or as an SSE endpoint. Configuration comes from the optional YAML file, .env files and GHTOOLS_* environment variables, in that order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, cmd, opts)
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			return a.run(ctx)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load; missing files are skipped")
	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport: stdio or sse (overrides config)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address for the SSE transport (overrides config)")
	return cmd
}

// loadConfig loads the configuration and applies flags given on the
// command line, which win over every other source.
func loadConfig(ctx context.Context, cmd *cobra.Command, opts serveOptions) (*config.Config, error) {
	cfg, err := config.NewLoader().
		WithConfigPath(opts.configPath).
		WithEnvFiles(opts.envFiles...).
		Load(ctx)
	if err != nil {
		return nil, err
	}

	changed := false
	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport = opts.transport
		changed = true
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = opts.addr
		changed = true
	}
	if cfg.Server.Version == "dev" {
		cfg.Server.Version = version
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, nil
}
