package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://api.vapi.ai", cfg.VapiBaseURL)
		assert.Equal(t, "America/New_York", cfg.DefaultTimezone)
		assert.Equal(t, 10*time.Second, cfg.MonitorInterval)
		assert.Equal(t, 30, cfg.MonitorMaxAttempts)
	})

	t.Run("reads credentials and tunables", func(t *testing.T) {
		t.Setenv("VAPI_API_KEY", "vk")
		t.Setenv("VAPI_PHONE_ID", "ph")
		t.Setenv("VAPI_ASSISTANT_ID", "as")
		t.Setenv("POKE_API_KEY", "pk")
		t.Setenv("PORT", "9001")
		t.Setenv("MONITOR_INTERVAL", "2s")
		t.Setenv("MONITOR_MAX_ATTEMPTS", "5")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "vk", cfg.VapiAPIKey.Value())
		assert.Equal(t, "ph", cfg.VapiPhoneID)
		assert.Equal(t, "as", cfg.VapiAssistantID)
		assert.True(t, cfg.PokeAPIKey.IsSet())
		assert.Equal(t, 9001, cfg.Port)
		assert.Equal(t, 2*time.Second, cfg.MonitorInterval)
		assert.Equal(t, 5, cfg.MonitorMaxAttempts)
		assert.True(t, cfg.HasVapi())
	})

	t.Run("missing vapi credentials are not a load error", func(t *testing.T) {
		t.Setenv("VAPI_API_KEY", "vk")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.False(t, cfg.HasVapi())
	})

	t.Run("rejects bad log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_FORMAT")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\nvapi_phone_id: from-file\n"), 0o600))

	t.Setenv("VAPI_PHONE_ID", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-env", cfg.VapiPhoneID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))

	b, err := json.Marshal(struct {
		Key Secret `json:"key"`
	}{Key: s})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"[REDACTED]"}`, string(b))

	assert.Equal(t, "", Secret("").String())
	assert.False(t, Secret("").IsSet())
}
