package types

import (
	"context"
	"time"
)

// Subscription is the per-guild access window. One record per guild,
// created with zero days when the bot joins and extended by the owner.
type Subscription struct {
	GuildID      int64
	StartDate    time.Time
	DurationDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiresAt is StartDate plus DurationDays calendar days, in UTC.
func (s *Subscription) ExpiresAt() time.Time {
	return s.StartDate.UTC().AddDate(0, 0, s.DurationDays)
}

// Expired reports whether the subscription window has passed. The final
// instant (now == expiry) still counts as active.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

// RemainingDays is the number of days until expiry, rounded up and
// never negative.
func (s *Subscription) RemainingDays(now time.Time) int {
	left := s.ExpiresAt().Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Permission is a per-(guild, user) capability grant. The flags are
// independent; a record with both false grants nothing.
type Permission struct {
	GuildID       int64
	UserID        int64
	CanAddTime    bool
	CanRemoveTime bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Grants reports whether the record grants anything at all.
func (p *Permission) Grants() bool {
	return p.CanAddTime || p.CanRemoveTime
}

// SubscriptionStore persists per-guild subscriptions. Lookups return
// (nil, nil) when the guild has no record; absence is not an error.
type SubscriptionStore interface {
	// CreateSubscription inserts a zero-day subscription for the guild if
	// none exists yet. Returns whether a record was actually inserted.
	CreateSubscription(ctx context.Context, guildID int64) (created bool, err error)

	GetSubscription(ctx context.Context, guildID int64) (*Subscription, error)

	// ExtendSubscription atomically adds days to the guild's duration and
	// returns the updated record, or (nil, nil) if the guild has none.
	ExtendSubscription(ctx context.Context, guildID int64, days int) (*Subscription, error)
}

// PermissionStore persists per-(guild, user) permission records.
type PermissionStore interface {
	// UpsertPermission inserts the record or replaces both flags of an
	// existing one for the same pair.
	UpsertPermission(ctx context.Context, perm Permission) error

	GetPermission(ctx context.Context, guildID, userID int64) (*Permission, error)

	// DeletePermission removes the record for the pair. Deleting a pair
	// that has no record is not an error.
	DeletePermission(ctx context.Context, guildID, userID int64) error
}
