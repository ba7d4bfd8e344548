// pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"c8ymcp/pkg/credstore"
)

type Config struct {
	Env      string
	HTTPAddr string // c8y-mcp-server

	// Keyring holding single-user credentials
	Keyring credstore.KeyringConfig

	// Remote platform client
	HTTPTimeout time.Duration

	// Take the tenant from X-Forwarded-Proto/Host instead of the connection
	TrustForwarded bool
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:      env("C8Y_MCP_ENV", "dev"),
		HTTPAddr: ":" + env("PORT", env("SERVER_PORT", "3000")),
		Keyring: credstore.KeyringConfig{
			Service:      env("C8Y_MCP_KEYRING_SERVICE", credstore.DefaultService),
			Backend:      env("C8Y_MCP_KEYRING_BACKEND", ""),
			FileDir:      env("C8Y_MCP_KEYRING_FILE_DIR", ""),
			FilePassword: env("C8Y_MCP_KEYRING_FILE_PASSWORD", ""),
		},
		HTTPTimeout:    envDur("C8Y_MCP_HTTP_TIMEOUT_SEC", 30) * time.Second,
		TrustForwarded: envBool("C8Y_MCP_TRUST_FORWARDED", false),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i <= 0 {
			return time.Duration(def)
		}
		return time.Duration(i)
	}
	return time.Duration(def)
}
