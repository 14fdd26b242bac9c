package service

import (
	"context"
	"errors"
	"time"

	"smartmedishop-storefront/internal/cache"
	"smartmedishop-storefront/internal/model"
)

func cartKey(sid string) string  { return "cart:" + sid }
func tokenKey(sid string) string { return "token:" + sid }

// cartPersister keeps one session's cart in the cache.
type cartPersister struct {
	cache cache.Cache
	key   string
	ttl   time.Duration
}

func (p *cartPersister) Load(ctx context.Context) ([]model.CartItem, error) {
	var items []model.CartItem
	err := cache.GetJSON(ctx, p.cache, p.key, &items)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	return items, err
}

func (p *cartPersister) Save(ctx context.Context, items []model.CartItem) error {
	return cache.SetJSON(ctx, p.cache, p.key, items, p.ttl)
}

func (p *cartPersister) Erase(ctx context.Context) error {
	return p.cache.Delete(ctx, p.key)
}

// credentialStore keeps one session's bearer token in the cache.
type credentialStore struct {
	cache cache.Cache
	key   string
	ttl   time.Duration
}

func (s *credentialStore) Load(ctx context.Context) (string, error) {
	raw, err := s.cache.Get(ctx, s.key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *credentialStore) Save(ctx context.Context, token string) error {
	return s.cache.Set(ctx, s.key, []byte(token), s.ttl)
}

func (s *credentialStore) Erase(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}
