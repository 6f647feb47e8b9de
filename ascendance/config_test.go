package ascendance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[db]
host = "localhost"
user = "ascendance"
password = "secret"
database = "ascendance_db"

[ratelimit]
requests = 120
window = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 8000, cfg.Web.Port)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Contains(t, cfg.Storage.AllowedTypes, "image/png")
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window.Std())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "local storage",
			cfg:  Config{},
		},
		{
			name:    "spaces without bucket",
			cfg:     Config{Storage: StorageConfig{Driver: StorageDriverSpaces}},
			wantErr: true,
		},
		{
			name: "spaces with bucket",
			cfg: Config{
				Storage: StorageConfig{Driver: StorageDriverSpaces},
				Spaces:  SpacesConfig{Bucket: "cards", Region: "fra1"},
			},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Storage: StorageConfig{Driver: "ftp"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfig_ProxyHeader(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Web.ProxyHeader, "forwarded headers are ignored without trusted proxies")

	cfg = Config{Web: WebConfig{TrustedProxies: []string{"10.0.0.1"}}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "X-Forwarded-For", cfg.Web.ProxyHeader)
}
