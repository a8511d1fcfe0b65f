package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, mrr.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.Decode)
	assert.False(t, cfg.API.Pretty)
	assert.False(t, cfg.API.PrintOutput)
	assert.False(t, cfg.TLS.InsecureSkipVerify)
	assert.True(t, cfg.HTTP.DenyPrivate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Journal.Path)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("MRR_TEST_SECRET", "from-env")
	path := writeConfig(t, `
api:
  key: file-key
  secret: ${MRR_TEST_SECRET}
  timeout: 5s
  decode: false
  pretty: true
journal:
  path: /tmp/mrr.db
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.API.Key)
	assert.Equal(t, "from-env", cfg.API.Secret)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.Decode)
	assert.True(t, cfg.API.Pretty)
	assert.Equal(t, "/tmp/mrr.db", cfg.Journal.Path)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api:
  key: file-key
  secret: file-secret
`)
	t.Setenv("MRR_API__KEY", "env-key")
	t.Setenv("MRR_API__DECODE", "false")
	t.Setenv("MRR_TLS__INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, "file-secret", cfg.API.Secret)
	assert.False(t, cfg.API.Decode)
	assert.True(t, cfg.TLS.InsecureSkipVerify)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateAPI(t *testing.T) {
	tests := []struct {
		name    string
		api     APIConfig
		wantErr string
	}{
		{name: "ok", api: APIConfig{Key: "k", Secret: "s", Timeout: time.Second}},
		{name: "no key", api: APIConfig{Secret: "s", Timeout: time.Second}, wantErr: "api.key"},
		{name: "no secret", api: APIConfig{Key: "k", Timeout: time.Second}, wantErr: "api.secret"},
		{name: "no timeout", api: APIConfig{Key: "k", Secret: "s"}, wantErr: "api.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{API: tt.api}
			err := cfg.ValidateAPI()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple substitution", input: "${TEST_VAR}", want: "test-value"},
		{name: "substitution in string", input: "prefix-${TEST_VAR}-suffix", want: "prefix-test-value-suffix"},
		{name: "no substitution", input: "plain-string", want: "plain-string"},
		{name: "undefined var", input: "${UNDEFINED_VAR}", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, substituteEnvVars(tt.input))
		})
	}
}
