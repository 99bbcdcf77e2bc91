package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HBRTB_PORT", "8123")
	t.Setenv("HBRTB_ADAPTERS_BUZZOOLA_ENDPOINT", "https://exchange.example.com/hb")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Port)
	assert.Equal(t, "https://exchange.example.com/hb", cfg.Adapters["buzzoola"].Endpoint)
}
