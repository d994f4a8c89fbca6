package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at an empty temp tree.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, ".local", "state"))
	for _, key := range []string{
		"SITECRAFT_CONFIG", "SITECRAFT_CONFIG_CONTENT", "SITECRAFT_API_URL",
		"SITECRAFT_TIMEOUT", "SITECRAFT_GENERATION_TIMEOUT", "SITECRAFT_LOG_LEVEL",
		"SITECRAFT_SESSION_STORE", "SITECRAFT_REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout.Std())
	assert.Equal(t, 120*time.Second, cfg.API.GenerationTimeout.Std())
	assert.Equal(t, DefaultPageSize, cfg.API.PageSize)
	assert.Equal(t, StoreFile, cfg.Session.Store)
	assert.Nil(t, cfg.Session.Redis)
}

func TestLoadGlobalJSONC(t *testing.T) {
	tmpDir := isolate(t)

	content := `{
		// comments are allowed
		"api": {
			"baseURL": "https://sitecraft.example.com/api/",
			"timeout": "10s",
			"generationTimeout": 300
		},
		"log": {"level": "debug"}
	}`
	path := filepath.Join(GetPaths().Config, "sitecraft.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://sitecraft.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 300*time.Second, cfg.API.GenerationTimeout.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	tmpDir := isolate(t)

	global := filepath.Join(GetPaths().Config, "sitecraft.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
	require.NoError(t, os.WriteFile(global, []byte(`{"api":{"baseURL":"http://global/api","pageSize":25}}`), 0644))

	project := ProjectConfigPath(tmpDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(project), 0755))
	require.NoError(t, os.WriteFile(project, []byte(`{"api":{"baseURL":"http://project/api"}}`), 0644))

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://project/api", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.API.PageSize, "unset fields keep the lower layer's value")
}

func TestLoadInterpolation(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("TEST_SITECRAFT_HOST", "interp.example.com")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "redis-pass"), []byte("s3cret\n"), 0600))

	content := `{
		"api": {"baseURL": "https://{env:TEST_SITECRAFT_HOST}/api"},
		"session": {"store": "redis", "redis": {"password": "{file:redis-pass}"}}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "sitecraft.json"), []byte(content), 0644))

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://interp.example.com/api", cfg.API.BaseURL)
	require.NotNil(t, cfg.Session.Redis)
	assert.Equal(t, "s3cret", cfg.Session.Redis.Password)
	assert.Equal(t, "localhost:6379", cfg.Session.Redis.Addr)
	assert.Equal(t, DefaultRedisKey, cfg.Session.Redis.Key)
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("SITECRAFT_CONFIG_CONTENT", `{"api":{"baseURL":"http://inline/api"}}`)
	t.Setenv("SITECRAFT_API_URL", "http://env/api")
	t.Setenv("SITECRAFT_TIMEOUT", "5")
	t.Setenv("SITECRAFT_GENERATION_TIMEOUT", "2m")
	t.Setenv("SITECRAFT_SESSION_STORE", "REDIS")
	t.Setenv("SITECRAFT_REDIS_ADDR", "cache:6380")

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://env/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 2*time.Minute, cfg.API.GenerationTimeout.Std())
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6380", cfg.Session.Redis.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("SITECRAFT_API_URL=http://dotenv/api\n"), 0644))
	// godotenv does not override variables that are already set
	require.NoError(t, os.Unsetenv("SITECRAFT_API_URL"))
	t.Cleanup(func() { os.Unsetenv("SITECRAFT_API_URL") })

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv/api", cfg.API.BaseURL)
}

func TestLoadInvalidStoreFallsBackToFile(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("SITECRAFT_SESSION_STORE", "etcd")

	cfg, err := Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Session.Store)
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := isolate(t)

	cfg := Default()
	cfg.API.BaseURL = "http://saved/api"
	path := filepath.Join(tmpDir, ".sitecraft", "sitecraft.json")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://saved/api", loaded.API.BaseURL)
	assert.Equal(t, cfg.API.GenerationTimeout, loaded.API.GenerationTimeout)
}

func TestGetPathsHonorsXDG(t *testing.T) {
	tmpDir := isolate(t)

	paths := GetPaths()
	assert.Equal(t, filepath.Join(tmpDir, ".local", "share", "sitecraft"), paths.Data)
	assert.Equal(t, filepath.Join(paths.Data, "storage"), paths.StoragePath())
	assert.Equal(t, filepath.Join(tmpDir, ".local", "state", "sitecraft", "sitecraft.log"), paths.LogPath())

	require.NoError(t, paths.EnsurePaths())
	_, err := os.Stat(paths.Config)
	assert.NoError(t, err)
}
