// Package storage is the key/value area the client keeps its data in.
//
// It plays the part browser local storage plays for a web front end: string
// values under string keys, read and written whole. Backends: in-process
// memory, a directory of files, and redis.
package storage

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/justsurfingit/brightpath/internal/errors"
)

// Storage holds string values under string keys.
type Storage interface {
	// GetItem returns the value under key; ok is false when nothing is stored.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	Driver        string // memory, file or redis
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(opts.Driver) {
	case "", "file":
		return NewFile(opts.Dir)
	case "memory":
		return NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrapf(err, "connect to redis at %s", opts.RedisAddr)
		}
		return NewRedis(client, opts.RedisPrefix), nil
	}
	return nil, errors.Newf("unknown storage driver %q", opts.Driver)
}
