// cmd/c8y-mcp-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"c8ymcp/internal/mcpserver"
	"c8ymcp/internal/resolver"
	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/config"
	"c8ymcp/pkg/logger"
	"c8ymcp/pkg/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: newRouter(cfg, log), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infow("c8y-mcp-server listening", "addr", cfg.HTTPAddr, "trust_forwarded", cfg.TrustForwarded)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Fprintln(os.Stderr, "c8y-mcp-server stopped")
}

func newRouter(cfg config.Config, log logger.Sugared) http.Handler {
	scope := auth.NewScope()
	r := resolver.New(resolver.ModeServer, scope, nil, log, resolver.WithTimeout(cfg.HTTPTimeout))
	mcp := server.NewStreamableHTTPServer(mcpserver.New(mcpserver.Config{Resolver: r, Log: log}),
		server.WithStateLess(true),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recover(log))
	router.Use(middleware.AccessLog(log))
	router.Use(cors)
	router.Use(middleware.Tracing("c8y-mcp-server", log))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("OK")) })
	router.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("C8Y MCP Server is running!")) })
	router.Get("/metrics", promhttp.Handler().ServeHTTP)
	router.With(middleware.Credentials(scope, cfg.TrustForwarded, log)).Handle("/mcp", mcp)
	return router
}

// MCP clients in browsers need cross-origin access.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Mcp-Session-Id, Mcp-Protocol-Version")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, X-Request-Id")
		w.Header().Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
