package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionExpiresAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	sub := &Subscription{GuildID: 1, StartDate: start, DurationDays: 5}

	assert.Equal(t, time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC), sub.ExpiresAt())
}

func TestSubscriptionExpiredBoundary(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{GuildID: 1, StartDate: start, DurationDays: 3}
	expiry := sub.ExpiresAt()

	assert.False(t, sub.Expired(expiry), "the exact expiry instant is still active")
	assert.True(t, sub.Expired(expiry.Add(time.Nanosecond)))
	assert.False(t, sub.Expired(expiry.Add(-time.Hour)))
}

func TestSubscriptionZeroDaysExpiresImmediately(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{GuildID: 1, StartDate: start}

	assert.False(t, sub.Expired(start))
	assert.True(t, sub.Expired(start.Add(time.Second)))
}

func TestSubscriptionRemainingDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{GuildID: 1, StartDate: start, DurationDays: 5}
	expiry := sub.ExpiresAt()

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"at start", start, 5},
		{"partial day rounds up", expiry.Add(-time.Hour), 1},
		{"just over a day rounds up", expiry.Add(-25 * time.Hour), 2},
		{"exact day boundary", expiry.Add(-48 * time.Hour), 2},
		{"at expiry", expiry, 0},
		{"past expiry clamps to zero", expiry.Add(72 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sub.RemainingDays(tt.now))
		})
	}
}

func TestPermissionGrants(t *testing.T) {
	assert.False(t, (&Permission{}).Grants(), "a record with both flags false grants nothing")
	assert.True(t, (&Permission{CanAddTime: true}).Grants())
	assert.True(t, (&Permission{CanRemoveTime: true}).Grants())
}
