package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/storefront/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoadByPath_Success(t *testing.T) {
	content := `
env: "local"
order_api:
  base_url: "http://localhost:9090/api"
  timeout: "10s"
cart_service:
  base_url: "http://localhost:9191/api"
  timeout: "5s"
dev_server:
  address: "localhost:9090"
  timeout: "4s"
  idle_timeout: "60s"
  token_ttl: 30
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	err = tmpFile.Close()
	assert.NoError(t, err)

	cfg := config.MustLoadByPath(tmpFile.Name())

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://localhost:9090/api", cfg.OrderAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.OrderAPI.Timeout)
	assert.Equal(t, "http://localhost:9191/api", cfg.CartService.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.CartService.Timeout)
	assert.Equal(t, "localhost:9090", cfg.DevServer.Address)
	assert.Equal(t, 4*time.Second, cfg.DevServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.DevServer.IdleTimeout)
	assert.Equal(t, 30, cfg.DevServer.TokenTTL)
}

func TestMustLoadByPath_TokenFromEnv(t *testing.T) {
	os.Setenv("STOREFRONT_TOKEN", "test-token")
	defer os.Unsetenv("STOREFRONT_TOKEN")

	content := `
env: "local"
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())

	cfg := config.MustLoadByPath(tmpFile.Name())
	assert.Equal(t, "test-token", cfg.OrderAPI.Token, "Token should be read from the environment only")
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
