package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the SiteCraft client configuration.
type Config struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty"`

	// Remote service endpoint and timeouts
	API APIConfig `json:"api"`

	// Credential persistence
	Session SessionConfig `json:"session"`

	// Logging
	Log LogConfig `json:"log"`
}

// APIConfig configures the transport adapter.
type APIConfig struct {
	BaseURL           string   `json:"baseURL,omitempty"`
	Timeout           Duration `json:"timeout,omitempty"`
	GenerationTimeout Duration `json:"generationTimeout,omitempty"`
	PageSize          int      `json:"pageSize,omitempty"`
}

// SessionConfig selects where the session record is persisted.
type SessionConfig struct {
	Store string       `json:"store,omitempty"` // "file" | "redis"
	Redis *RedisConfig `json:"redis,omitempty"`
}

// RedisConfig configures the Redis credential store.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	Key      string `json:"key,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level,omitempty"` // DEBUG|INFO|WARN|ERROR
	File  string `json:"file,omitempty"`
}

// Duration is a time.Duration that reads "90s"-style strings or plain
// seconds from JSON.
type Duration time.Duration

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}
