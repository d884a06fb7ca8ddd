package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mkorobov/playtime-bot/types"
)

// CacheClient is the subset of RedisClient the cached store needs.
type CacheClient interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, key string) error
}

// CachedStore is a read-through cache in front of the persistent
// subscription and permission stores. Every mutation invalidates the
// affected key, so a read after a write always sees the written state.
// Cache failures fall back to the underlying store and are never
// surfaced to the caller.
type CachedStore struct {
	subs  types.SubscriptionStore
	perms types.PermissionStore
	cache CacheClient
	ttl   time.Duration
}

func NewCachedStore(subs types.SubscriptionStore, perms types.PermissionStore, cache CacheClient, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedStore{
		subs:  subs,
		perms: perms,
		cache: cache,
		ttl:   ttl,
	}
}

func subKey(guildID int64) string {
	return fmt.Sprintf("sub:%d", guildID)
}

func permKey(guildID, userID int64) string {
	return fmt.Sprintf("perm:%d:%d", guildID, userID)
}

func (s *CachedStore) CreateSubscription(ctx context.Context, guildID int64) (bool, error) {
	created, err := s.subs.CreateSubscription(ctx, guildID)
	if err != nil {
		return false, err
	}
	if created {
		s.invalidate(ctx, subKey(guildID))
	}
	return created, nil
}

func (s *CachedStore) GetSubscription(ctx context.Context, guildID int64) (*types.Subscription, error) {
	var cached types.Subscription
	err := s.cache.Get(ctx, subKey(guildID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("cache: get %s: %v", subKey(guildID), err)
	}

	sub, err := s.subs.GetSubscription(ctx, guildID)
	if err != nil {
		return nil, err
	}
	// Absence is not cached: a fresh bootstrap must be visible at once.
	if sub != nil {
		if err := s.cache.Set(ctx, subKey(guildID), sub, s.ttl); err != nil {
			log.Printf("cache: set %s: %v", subKey(guildID), err)
		}
	}
	return sub, nil
}

func (s *CachedStore) ExtendSubscription(ctx context.Context, guildID int64, days int) (*types.Subscription, error) {
	sub, err := s.subs.ExtendSubscription(ctx, guildID, days)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, subKey(guildID))
	return sub, nil
}

func (s *CachedStore) UpsertPermission(ctx context.Context, perm types.Permission) error {
	if err := s.perms.UpsertPermission(ctx, perm); err != nil {
		return err
	}
	s.invalidate(ctx, permKey(perm.GuildID, perm.UserID))
	return nil
}

func (s *CachedStore) GetPermission(ctx context.Context, guildID, userID int64) (*types.Permission, error) {
	var cached types.Permission
	err := s.cache.Get(ctx, permKey(guildID, userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("cache: get %s: %v", permKey(guildID, userID), err)
	}

	perm, err := s.perms.GetPermission(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if perm != nil {
		if err := s.cache.Set(ctx, permKey(guildID, userID), perm, s.ttl); err != nil {
			log.Printf("cache: set %s: %v", permKey(guildID, userID), err)
		}
	}
	return perm, nil
}

func (s *CachedStore) DeletePermission(ctx context.Context, guildID, userID int64) error {
	if err := s.perms.DeletePermission(ctx, guildID, userID); err != nil {
		return err
	}
	s.invalidate(ctx, permKey(guildID, userID))
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		log.Printf("cache: del %s: %v", key, err)
	}
}
