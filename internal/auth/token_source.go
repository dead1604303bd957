package auth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/storage"
)

// DefaultTokenKey is where the bearer token is kept in local storage.
const DefaultTokenKey = "authToken"

// ErrNoToken is returned when no token is stored.
var ErrNoToken = errors.New("no auth token stored")

// StorageTokenSource serves the bearer token kept in local storage.
// It is read on every call so a login or logout takes effect immediately.
type StorageTokenSource struct {
	Storage storage.Storage
	Key     string
}

var _ oauth2.TokenSource = (*StorageTokenSource)(nil)

func NewStorageTokenSource(s storage.Storage, key string) *StorageTokenSource {
	if key == "" {
		key = DefaultTokenKey
	}
	return &StorageTokenSource{Storage: s, Key: key}
}

func (s *StorageTokenSource) Token() (*oauth2.Token, error) {
	v, ok, err := s.Storage.GetItem(context.Background(), s.Key)
	if err != nil {
		return nil, errors.Wrap(err, "read auth token")
	}
	if !ok || v == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: v, TokenType: "Bearer"}, nil
}

// SetToken stores the bearer token.
func (s *StorageTokenSource) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	return s.Storage.SetItem(ctx, s.Key, token)
}

// RemoveToken forgets the stored token.
func (s *StorageTokenSource) RemoveToken(ctx context.Context) error {
	return s.Storage.RemoveItem(ctx, s.Key)
}
