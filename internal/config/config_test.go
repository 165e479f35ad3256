package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MEILISEARCH_HOST", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "", cfg.MeiliSearchHost)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Greater(t, cfg.JWTTTL, time.Duration(0))
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("SUBMIT_COOLDOWN", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 750*time.Millisecond, cfg.SubmitCooldown)

	t.Setenv("SUBMIT_COOLDOWN", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestNormalizeMeiliHost(t *testing.T) {
	assert.Equal(t, "http://meili:7700", normalizeMeiliHost("meili"))
	assert.Equal(t, "https://search.example.com", normalizeMeiliHost("https://search.example.com"))
	assert.Equal(t, "", normalizeMeiliHost(" "))
}

func TestLoadReindexSchedule(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("SEARCH_REINDEX_SCHEDULE", " @daily ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@daily", cfg.SearchReindexSchedule)

	t.Setenv("SEARCH_REINDEX_SCHEDULE", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SearchReindexSchedule)
}
