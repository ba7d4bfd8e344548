// Package mcpserver assembles the MCP server for one execution mode.
package mcpserver

import (
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"c8ymcp/internal/prompts"
	"c8ymcp/internal/resolver"
	"c8ymcp/internal/tools"
)

const Name = "c8y-mcp-server"

// Version is set at build time with -ldflags "-X c8ymcp/internal/mcpserver.Version=...".
var Version = "0.0.0-dev"

const instructions = "Read-only access to a Cumulocity IoT tenant: inventory (devices, groups, assets), " +
	"measurements, events, alarms, dashboards, audit logs, users, applications and tenant usage. " +
	"Start from the guide prompts (inventory-query, measurements-guide, events-guide, alarms-guide, datetime-guide); " +
	"tenant-context and lookup-device summarize live data. " +
	"Always filter queries; tenants can hold many thousands of objects."

type Config struct {
	Resolver *resolver.Resolver
	// Credentials backs the list-credentials tool in single-user mode.
	Credentials tools.CredentialLister
	Log         *zap.SugaredLogger
	// Now drives the date guides; nil means time.Now.
	Now func() time.Time
}

// New builds the MCP server. The tool surface follows the resolver's mode:
// single-user tools take a tenantUrl argument and list-credentials is added.
func New(cfg Config) *server.MCPServer {
	single := cfg.Resolver.Mode() == resolver.ModeSingleUser
	s := server.NewMCPServer(Name, Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	all := tools.All(tools.Deps{Resolver: cfg.Resolver, SingleUser: single, Log: cfg.Log})
	if single && cfg.Credentials != nil {
		all = append(all, tools.ListCredentials(cfg.Credentials))
	}
	tools.Register(s, all)
	prompts.Register(s, prompts.All(prompts.Deps{Resolver: cfg.Resolver, SingleUser: single, Log: cfg.Log, Now: cfg.Now}))

	if cfg.Log != nil {
		cfg.Log.Infow("mcp server ready", "mode", cfg.Resolver.Mode(), "tools", len(all))
	}
	return s
}
