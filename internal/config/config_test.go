package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, PredictorHTTP, cfg.Model.Kind)
	assert.Equal(t, 2*time.Second, cfg.Model.Timeout)
	assert.Equal(t, "Asia/Manila", cfg.Timezone)
	assert.True(t, cfg.FallbackEnabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SKYFARE_ENV", "production")
	t.Setenv("SKYFARE_HTTP_ADDR", ":9090")
	t.Setenv("SKYFARE_PREDICTOR", "NONE")
	t.Setenv("SKYFARE_MODEL_TIMEOUT", "750ms")
	t.Setenv("SKYFARE_FALLBACK_ENABLED", "false")
	t.Setenv("SKYFARE_REDIS_DB", "3")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, PredictorNone, cfg.Model.Kind)
	assert.Equal(t, 750*time.Millisecond, cfg.Model.Timeout)
	assert.False(t, cfg.FallbackEnabled)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown predictor", map[string]string{"SKYFARE_PREDICTOR": "oracle"}},
		{"gemini without key", map[string]string{"SKYFARE_PREDICTOR": "gemini"}},
		{"zero rate", map[string]string{"SKYFARE_RATE_RPS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("GEMINI_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
