package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/config"
	"stockdash/internal/provider"
	"stockdash/internal/provider/google"
	"stockdash/internal/provider/ratelimit"
	"stockdash/internal/provider/yahoo"
)

func TestProviders_Enabled(t *testing.T) {
	cfg := config.Default()
	cfg.Google.MaxRequestsPerMinute = 30

	set := Providers(cfg, zerolog.Nop())

	require.Len(t, set, 2)
	assert.IsType(t, &yahoo.Provider{}, set[provider.Yahoo])
	require.IsType(t, &ratelimit.Provider{}, set[provider.Google])
	assert.IsType(t, &google.Provider{}, set[provider.Google].(*ratelimit.Provider).P)
	assert.Equal(t, provider.Google, set[provider.Google].ID())
}

func TestProviders_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Yahoo.Enabled = false

	set := Providers(cfg, zerolog.Nop())

	_, ok := set[provider.Yahoo]
	assert.False(t, ok)
	assert.Len(t, set, 1)
}

func TestDefaultSource(t *testing.T) {
	cfg := config.Default()
	both := provider.Set{provider.Yahoo: nil, provider.Google: nil}
	onlyYahoo := provider.Set{provider.Yahoo: nil}

	assert.Equal(t, provider.Google, DefaultSource(cfg, both))
	assert.Equal(t, provider.Yahoo, DefaultSource(cfg, onlyYahoo))

	cfg.Pipeline.DefaultSource = "yahoo"
	assert.Equal(t, provider.Yahoo, DefaultSource(cfg, both))
}

func TestLoader(t *testing.T) {
	cfg := config.Default()
	cfg.Portfolio.Path = "x.json"

	l := Loader(cfg)

	assert.Equal(t, "x.json", l.Path)
	assert.Equal(t, cfg.Portfolio.Columns, l.Columns)
}
