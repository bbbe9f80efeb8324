package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_GO", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "15")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 90*time.Second, getEnvAsTimeDuration("TEST_DURATION_GO", time.Minute))
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_BAD", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_MISSING", time.Minute))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " en, ar ,,")
	assert.Equal(t, []string{"en", "ar"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_SLICE_MISSING", []string{"x"}))
}

func TestGetEnvAsIntAndBool(t *testing.T) {
	t.Setenv("TEST_INT", " 42 ")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_INT_BAD", 1))
	assert.False(t, getEnvAsBool("TEST_BOOL", true))
	assert.True(t, getEnvAsBool("TEST_BOOL_MISSING", true))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("OFFER_PRICE", "3000")
	t.Setenv("MESSAGING_PROVIDER", "telegram")
	t.Setenv("I18N_SUPPORTED_LANGUAGES", "en,ar,fr")

	cfg := Load()
	assert.Equal(t, uint64(3000), cfg.Offer.Price)
	assert.Equal(t, "telegram", cfg.Messaging.Provider)
	assert.Equal(t, []string{"en", "ar", "fr"}, cfg.I18n.SupportedLanguages)
	assert.Equal(t, []string{"games", "entertainment", "misc"}, cfg.Offer.AllowedCategories)
}

func TestIsProduction(t *testing.T) {
	assert.Equal(t, GetConfig().Server.Environment == "production", IsProduction())
}
