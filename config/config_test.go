package config

import (
	"testing"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// OTel 以端点非空作为总开关，缺省必须是关闭
func TestOTLPEndpointDefaultsToDisabled(t *testing.T) {
	t.Setenv("OTLP_ENDPOINT", "")

	var cfg Config
	require.NoError(t, env.Parse(&cfg))
	assert.Empty(t, cfg.OTLPEndpoint)
}
