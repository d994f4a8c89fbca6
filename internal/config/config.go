package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

const (
	DefaultBaseURL           = "http://localhost:5000/api"
	DefaultTimeout           = 30 * time.Second
	DefaultGenerationTimeout = 120 * time.Second
	DefaultPageSize          = 10
	DefaultRedisKey          = "sitecraft:session"

	StoreFile  = "file"
	StoreRedis = "redis"
)

// Default returns the built-in configuration.
func Default() *types.Config {
	return &types.Config{
		API: types.APIConfig{
			BaseURL:           DefaultBaseURL,
			Timeout:           types.Duration(DefaultTimeout),
			GenerationTimeout: types.Duration(DefaultGenerationTimeout),
			PageSize:          DefaultPageSize,
		},
		Session: types.SessionConfig{
			Store: StoreFile,
		},
		Log: types.LogConfig{
			Level: "INFO",
		},
	}
}

// Load loads configuration from multiple sources (priority order):
// 1. Built-in defaults
// 2. Global config (~/.config/sitecraft/)
// 3. Project config (sitecraft.json or .sitecraft/ in directory)
// 4. SITECRAFT_CONFIG file
// 5. SITECRAFT_CONFIG_CONTENT inline JSON
// 6. .env file in directory (never overrides variables already set)
// 7. Environment variables
func Load(directory string) (*types.Config, error) {
	config := Default()

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 2. XDG-compatible global config
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "sitecraft.json"), globalPath)
	loadOnce(filepath.Join(globalPath, "sitecraft.jsonc"), globalPath)

	// 3. Project config
	if directory != "" {
		projectConfigDir := filepath.Join(directory, ".sitecraft")
		loadOnce(filepath.Join(directory, "sitecraft.json"), directory)
		loadOnce(filepath.Join(directory, "sitecraft.jsonc"), directory)
		loadOnce(filepath.Join(projectConfigDir, "sitecraft.json"), projectConfigDir)
		loadOnce(filepath.Join(projectConfigDir, "sitecraft.jsonc"), projectConfigDir)
	}

	// 4. SITECRAFT_CONFIG file override
	if configPath := os.Getenv("SITECRAFT_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 5. SITECRAFT_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("SITECRAFT_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig types.Config
		if err := json.Unmarshal(jsonc.ToJSON([]byte(configContent)), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 6. .env file
	if directory != "" {
		_ = godotenv.Load(filepath.Join(directory, ".env"))
	}

	// 7. Environment variables (highest priority)
	applyEnvOverrides(config)

	normalize(config)
	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data = jsonc.ToJSON(data)
	data = interpolate(data, baseDir)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

var (
	envPattern  = regexp.MustCompile(`\{env:([^}]+)\}`)
	filePattern = regexp.MustCompile(`\{file:([^}]+)\}`)
)

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := envPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})

	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]
		if strings.HasPrefix(filePath, "~/") {
			filePath = filepath.Join(os.Getenv("HOME"), filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match
		}
		// Secrets in files usually end with a newline
		escaped, _ := json.Marshal(strings.TrimSpace(string(content)))
		return string(escaped[1 : len(escaped)-1])
	})

	return []byte(str)
}

// mergeConfig merges non-zero source fields into target.
func mergeConfig(target, source *types.Config) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}

	if source.API.BaseURL != "" {
		target.API.BaseURL = source.API.BaseURL
	}
	if source.API.Timeout > 0 {
		target.API.Timeout = source.API.Timeout
	}
	if source.API.GenerationTimeout > 0 {
		target.API.GenerationTimeout = source.API.GenerationTimeout
	}
	if source.API.PageSize > 0 {
		target.API.PageSize = source.API.PageSize
	}

	if source.Session.Store != "" {
		target.Session.Store = source.Session.Store
	}
	if source.Session.Redis != nil {
		if target.Session.Redis == nil {
			target.Session.Redis = &types.RedisConfig{}
		}
		r := source.Session.Redis
		if r.Addr != "" {
			target.Session.Redis.Addr = r.Addr
		}
		if r.Password != "" {
			target.Session.Redis.Password = r.Password
		}
		if r.DB != 0 {
			target.Session.Redis.DB = r.DB
		}
		if r.Key != "" {
			target.Session.Redis.Key = r.Key
		}
	}

	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
	}
	if source.Log.File != "" {
		target.Log.File = source.Log.File
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	if v := os.Getenv("SITECRAFT_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if d, ok := envDuration("SITECRAFT_TIMEOUT"); ok {
		config.API.Timeout = types.Duration(d)
	}
	if d, ok := envDuration("SITECRAFT_GENERATION_TIMEOUT"); ok {
		config.API.GenerationTimeout = types.Duration(d)
	}
	if v := os.Getenv("SITECRAFT_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("SITECRAFT_SESSION_STORE"); v != "" {
		config.Session.Store = v
	}
	if v := os.Getenv("SITECRAFT_REDIS_ADDR"); v != "" {
		if config.Session.Redis == nil {
			config.Session.Redis = &types.RedisConfig{}
		}
		config.Session.Redis.Addr = v
	}
}

// envDuration reads a duration such as "45s", or a bare number of seconds.
func envDuration(key string) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}

// normalize fills derived defaults after all layers are merged.
func normalize(config *types.Config) {
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")
	config.Session.Store = strings.ToLower(config.Session.Store)
	if config.Session.Store != StoreRedis {
		config.Session.Store = StoreFile
	}
	if config.Session.Store == StoreRedis {
		if config.Session.Redis == nil {
			config.Session.Redis = &types.RedisConfig{}
		}
		if config.Session.Redis.Addr == "" {
			config.Session.Redis.Addr = "localhost:6379"
		}
		if config.Session.Redis.Key == "" {
			config.Session.Redis.Key = DefaultRedisKey
		}
	}
}

// Save saves the configuration to a file.
func Save(config *types.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
