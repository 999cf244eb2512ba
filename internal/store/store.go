// Package store keeps profiles and the "current profile" selection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// ErrNotFound is returned when a profile id does not resolve.
var ErrNotFound = errors.New("profile not found")

// Store is a profile backend.
type Store interface {
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)
	ListProfiles(ctx context.Context) ([]*profile.Profile, error)
	PutProfile(ctx context.Context, p *profile.Profile) error
	GetCurrentProfile(ctx context.Context) (*profile.Profile, error)
	SetCurrentProfile(ctx context.Context, id string) error
	Close() error
}

const (
	TypeMemory   = "memory"
	TypeFile     = "file"
	TypeRedis    = "redis"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"

	defaultFilePath   = "cupid-profiles.json"
	defaultSQLitePath = "cupid-profiles.db"
)

type Config struct {
	Type  string      `mapstructure:"type"`
	Path  string      `mapstructure:"path"`
	DSN   string      `mapstructure:"dsn"`
	Redis RedisConfig `mapstructure:"redis"`
}

// Open builds the backend selected by cfg.Type.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeMemory:
		return NewMemory(), nil
	case TypeFile:
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = defaultFilePath
		}
		return OpenFile(path)
	case TypeRedis:
		return OpenRedis(ctx, cfg.Redis)
	case TypeSQLite:
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			dsn = strings.TrimSpace(cfg.Path)
		}
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		return OpenSQL(TypeSQLite, dsn)
	case TypePostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, errors.New("postgres store requires a dsn")
		}
		return OpenSQL(TypePostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

func validateForPut(p *profile.Profile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}
	return nil
}

func encode(p *profile.Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*profile.Profile, error) {
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// clone returns a deep copy so callers never share state with a backend.
func clone(p *profile.Profile) (*profile.Profile, error) {
	data, err := encode(p)
	if err != nil {
		return nil, err
	}
	return decode(data)
}
