package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/utkarshverma439/SiteCraft-AI/internal/storage"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// ErrNoSession is returned by a CredentialStore with nothing persisted.
var ErrNoSession = errors.New("no session")

// CredentialStore persists the single session record.
type CredentialStore interface {
	// Load returns the persisted record, or ErrNoSession.
	Load(ctx context.Context) (*types.Session, error)
	Save(ctx context.Context, s *types.Session) error
	// Clear removes the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

var sessionKey = []string{"auth", "session"}

// FileStore keeps the session record in <data>/storage/auth/session.json.
type FileStore struct {
	storage *storage.Storage
}

// NewFileStore creates a FileStore on top of st.
func NewFileStore(st *storage.Storage) *FileStore {
	return &FileStore{storage: st}
}

func (f *FileStore) Load(ctx context.Context) (*types.Session, error) {
	var s types.Session
	if err := f.storage.Get(ctx, sessionKey, &s); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &s, nil
}

func (f *FileStore) Save(ctx context.Context, s *types.Session) error {
	return f.storage.Put(ctx, sessionKey, s)
}

func (f *FileStore) Clear(ctx context.Context) error {
	return f.storage.Delete(ctx, sessionKey)
}

// RedisStore keeps the session record under one Redis key, for machines
// that share a login or have no writable home directory.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore using key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// NewRedisStoreFromConfig dials Redis according to cfg.
func NewRedisStoreFromConfig(cfg *types.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStore(client, cfg.Key)
}

func (r *RedisStore) Load(ctx context.Context) (*types.Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *types.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
