// cmd/c8y-mcp/main.go
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"c8ymcp/internal/mcpserver"
	"c8ymcp/internal/resolver"
	"c8ymcp/pkg/config"
	"c8ymcp/pkg/credstore"
	"c8ymcp/pkg/logger"
)

type app struct {
	cfg       config.Config
	log       logger.Sugared
	openStore func() (*credstore.Store, error)
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	a := &app{
		cfg: cfg,
		log: log,
		openStore: func() (*credstore.Store, error) {
			backend, err := credstore.OpenKeyring(cfg.Keyring)
			if err != nil {
				return nil, err
			}
			return credstore.New(backend, log), nil
		},
	}
	if err := newRootCommand(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "c8y-mcp",
		Short:         "Cumulocity MCP server over stdio, using credentials from the OS keyring",
		Version:       mcpserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serveStdio()
		},
	}
	cmd.AddCommand(newCredsCommand(a))
	return cmd
}

func (a *app) serveStdio() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	r := resolver.New(resolver.ModeSingleUser, nil, store, a.log, resolver.WithTimeout(a.cfg.HTTPTimeout))
	s := mcpserver.New(mcpserver.Config{Resolver: r, Credentials: store, Log: a.log})

	a.log.Infow("serving MCP over stdio", "mode", r.Mode(), "keyring", a.cfg.Keyring.Service)
	return server.ServeStdio(s)
}
