package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorobov/playtime-bot/types"
)

const ownerID = int64(1000)

type fakeSubStore struct {
	subs map[int64]*types.Subscription
	err  error
}

func (f *fakeSubStore) CreateSubscription(ctx context.Context, guildID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.subs[guildID]; ok {
		return false, nil
	}
	f.subs[guildID] = &types.Subscription{GuildID: guildID, StartDate: time.Now().UTC()}
	return true, nil
}

func (f *fakeSubStore) GetSubscription(ctx context.Context, guildID int64) (*types.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[guildID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeSubStore) ExtendSubscription(ctx context.Context, guildID int64, days int) (*types.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[guildID]
	if !ok {
		return nil, nil
	}
	sub.DurationDays += days
	cp := *sub
	return &cp, nil
}

type fakePermStore struct {
	perms map[[2]int64]*types.Permission
	err   error
}

func (f *fakePermStore) UpsertPermission(ctx context.Context, perm types.Permission) error {
	if f.err != nil {
		return f.err
	}
	f.perms[[2]int64{perm.GuildID, perm.UserID}] = &perm
	return nil
}

func (f *fakePermStore) GetPermission(ctx context.Context, guildID, userID int64) (*types.Permission, error) {
	if f.err != nil {
		return nil, f.err
	}
	perm, ok := f.perms[[2]int64{guildID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *perm
	return &cp, nil
}

func (f *fakePermStore) DeletePermission(ctx context.Context, guildID, userID int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.perms, [2]int64{guildID, userID})
	return nil
}

func newFixture() (*Gate, *fakeSubStore, *fakePermStore) {
	subs := &fakeSubStore{subs: make(map[int64]*types.Subscription)}
	perms := &fakePermStore{perms: make(map[[2]int64]*types.Permission)}
	return NewGate(subs, perms, ownerID), subs, perms
}

func activeSub(guildID int64, days int, now time.Time) *types.Subscription {
	return &types.Subscription{GuildID: guildID, StartDate: now.AddDate(0, 0, -1), DurationDays: days}
}

func TestEvaluateNoSubscription(t *testing.T) {
	gate, _, _ := newFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, auth := range []AuthClass{AuthNone, AuthOwner, AuthPermissionAdd, AuthPermissionRemove} {
		decision := gate.Evaluate(context.Background(), 1, ownerID, auth, false, now)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonSubscriptionNotFound, decision.Reason)
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	gate, subs, _ := newFixture()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subs.subs[1] = &types.Subscription{GuildID: 1, StartDate: start, DurationDays: 7}
	expiry := start.AddDate(0, 0, 7)

	atBoundary := gate.Evaluate(context.Background(), 1, 5, AuthNone, false, expiry)
	assert.True(t, atBoundary.Allowed, "the exact expiry instant is still active")
	assert.Equal(t, 0, atBoundary.Snapshot.RemainingDays)
	assert.Equal(t, expiry, atBoundary.Snapshot.ExpiresAt)

	pastBoundary := gate.Evaluate(context.Background(), 1, 5, AuthNone, false, expiry.Add(time.Nanosecond))
	assert.False(t, pastBoundary.Allowed)
	assert.Equal(t, ReasonSubscriptionExpired, pastBoundary.Reason)
}

func TestEvaluateFreshGuildIsExpired(t *testing.T) {
	gate, subs, _ := newFixture()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subs.subs[1] = &types.Subscription{GuildID: 1, StartDate: start, DurationDays: 0}

	decision := gate.Evaluate(context.Background(), 1, 5, AuthNone, false, start.Add(time.Minute))
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonSubscriptionExpired, decision.Reason)
}

func TestEvaluateAllowExpiredBypassesExpiryOnly(t *testing.T) {
	gate, subs, _ := newFixture()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subs.subs[1] = &types.Subscription{GuildID: 1, StartDate: start, DurationDays: 0}
	now := start.Add(48 * time.Hour)

	owner := gate.Evaluate(context.Background(), 1, ownerID, AuthOwner, true, now)
	assert.True(t, owner.Allowed, "the owner can extend an already expired guild")
	assert.Equal(t, 0, owner.Snapshot.RemainingDays)

	stranger := gate.Evaluate(context.Background(), 1, 5, AuthOwner, true, now)
	assert.False(t, stranger.Allowed)
	assert.Equal(t, ReasonPermissionDenied, stranger.Reason)

	// The bypass never rescues a guild that was never bootstrapped.
	missing := gate.Evaluate(context.Background(), 2, ownerID, AuthOwner, true, now)
	assert.Equal(t, ReasonSubscriptionNotFound, missing.Reason)
}

func TestEvaluateOwnerCheck(t *testing.T) {
	gate, subs, _ := newFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subs.subs[1] = activeSub(1, 30, now)

	denied := gate.Evaluate(context.Background(), 1, ownerID+1, AuthOwner, false, now)
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonPermissionDenied, denied.Reason)

	allowed := gate.Evaluate(context.Background(), 1, ownerID, AuthOwner, false, now)
	assert.True(t, allowed.Allowed)
}

func TestEvaluatePermissionFlags(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		perm    *types.Permission
		auth    AuthClass
		allowed bool
	}{
		{"no record, add", nil, AuthPermissionAdd, false},
		{"no record, remove", nil, AuthPermissionRemove, false},
		{"add flag, add", &types.Permission{CanAddTime: true}, AuthPermissionAdd, true},
		{"add flag, remove", &types.Permission{CanAddTime: true}, AuthPermissionRemove, false},
		{"remove flag, remove", &types.Permission{CanRemoveTime: true}, AuthPermissionRemove, true},
		{"remove flag, add", &types.Permission{CanRemoveTime: true}, AuthPermissionAdd, false},
		{"both flags, add", &types.Permission{CanAddTime: true, CanRemoveTime: true}, AuthPermissionAdd, true},
		{"dead record, add", &types.Permission{}, AuthPermissionAdd, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, subs, perms := newFixture()
			subs.subs[1] = activeSub(1, 30, now)
			if tt.perm != nil {
				p := *tt.perm
				p.GuildID, p.UserID = 1, 5
				perms.perms[[2]int64{1, 5}] = &p
			}

			decision := gate.Evaluate(context.Background(), 1, 5, tt.auth, false, now)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonPermissionDenied, decision.Reason)
			}
		})
	}
}

func TestEvaluateStorageErrorNeverAllows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	boom := errors.New("connection refused")

	t.Run("subscription lookup fails", func(t *testing.T) {
		gate, subs, _ := newFixture()
		subs.err = boom

		decision := gate.Evaluate(context.Background(), 1, ownerID, AuthNone, false, now)
		require.False(t, decision.Allowed)
		assert.Equal(t, ReasonStorageError, decision.Reason)
		assert.ErrorIs(t, decision.Err, boom)
	})

	t.Run("permission lookup fails", func(t *testing.T) {
		gate, subs, perms := newFixture()
		subs.subs[1] = activeSub(1, 30, now)
		perms.err = boom

		decision := gate.Evaluate(context.Background(), 1, 5, AuthPermissionAdd, false, now)
		require.False(t, decision.Allowed)
		assert.Equal(t, ReasonStorageError, decision.Reason)
		assert.ErrorIs(t, decision.Err, boom)
	})
}

func TestEvaluateSnapshot(t *testing.T) {
	gate, subs, _ := newFixture()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subs.subs[1] = &types.Subscription{GuildID: 1, StartDate: start, DurationDays: 10}

	decision := gate.Evaluate(context.Background(), 1, 5, AuthNone, false, start.Add(36*time.Hour))
	require.True(t, decision.Allowed)
	assert.Equal(t, start.AddDate(0, 0, 10), decision.Snapshot.ExpiresAt)
	assert.Equal(t, 9, decision.Snapshot.RemainingDays, "eight and a half days left rounds up to nine")
}
