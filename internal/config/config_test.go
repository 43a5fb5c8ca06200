package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFailsWithoutInviteSecretKey(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadSucceedsWithMockProvider(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "s3cr3t")
	t.Setenv("KICKAI_AI_PROVIDER", "mock")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.InviteSecretKey)
	assert.Equal(t, 100, cfg.CacheServiceSize)
}

func TestLoadRequiresAPIKeyForNonMockProvider(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "s3cr3t")
	t.Setenv("KICKAI_AI_PROVIDER", "openai")
	t.Setenv("KICKAI_AI_API_KEY", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadSucceedsWithOllamaProviderWithoutAPIKey(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "s3cr3t")
	t.Setenv("KICKAI_AI_PROVIDER", "ollama")
	t.Setenv("KICKAI_AI_API_KEY", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.AIProvider)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "s3cr3t")
	t.Setenv("KICKAI_AI_PROVIDER", "anthropic")
	_, err := Load("")
	assert.Error(t, err)
}

func TestEnvOverlayOverridesDefaults(t *testing.T) {
	t.Setenv("KICKAI_INVITE_SECRET_KEY", "s3cr3t")
	t.Setenv("KICKAI_CACHE_SERVICE_SIZE", "250")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.CacheServiceSize)
}
