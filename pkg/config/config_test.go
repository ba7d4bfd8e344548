package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"c8ymcp/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"C8Y_MCP_ENV", "PORT", "SERVER_PORT", "C8Y_MCP_KEYRING_SERVICE", "C8Y_MCP_HTTP_TIMEOUT_SEC", "C8Y_MCP_TRUST_FORWARDED", "C8Y_MCP_KEYRING_BACKEND"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "c8y-mcp", cfg.Keyring.Service)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.TrustForwarded)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("C8Y_MCP_KEYRING_SERVICE", "c8y-test")
	t.Setenv("C8Y_MCP_HTTP_TIMEOUT_SEC", "5")
	t.Setenv("C8Y_MCP_TRUST_FORWARDED", "true")

	cfg := config.Load()
	assert.Equal(t, ":8088", cfg.HTTPAddr)
	assert.Equal(t, "c8y-test", cfg.Keyring.Service)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.TrustForwarded)

	t.Setenv("PORT", "9000")
	assert.Equal(t, ":9000", config.Load().HTTPAddr)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("C8Y_MCP_HTTP_TIMEOUT_SEC", "soon")
	t.Setenv("C8Y_MCP_TRUST_FORWARDED", "maybe")

	cfg := config.Load()
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.TrustForwarded)
}
