// Package access decides, for every inbound command, whether it may run.
package access

import (
	"context"
	"time"

	"github.com/mkorobov/playtime-bot/types"
)

// AuthClass is the authorization a command requires beyond an active
// subscription.
type AuthClass int

const (
	// AuthNone requires an active subscription only.
	AuthNone AuthClass = iota
	// AuthOwner requires the caller to be the configured bot owner.
	AuthOwner
	// AuthPermissionAdd requires a permission record with can_add_time.
	AuthPermissionAdd
	// AuthPermissionRemove requires a permission record with can_remove_time.
	AuthPermissionRemove
)

// DenyReason classifies why a command was not allowed to run.
type DenyReason int

const (
	ReasonNone DenyReason = iota
	ReasonSubscriptionNotFound
	ReasonSubscriptionExpired
	ReasonPermissionDenied
	ReasonStorageError
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonSubscriptionNotFound:
		return "subscription_not_found"
	case ReasonSubscriptionExpired:
		return "subscription_expired"
	case ReasonPermissionDenied:
		return "permission_denied"
	case ReasonStorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Snapshot carries the subscription state at evaluation time, so allowed
// command bodies need not recompute it.
type Snapshot struct {
	ExpiresAt     time.Time
	RemainingDays int
}

// Decision is the outcome of a gate evaluation. Err holds the underlying
// storage error when Reason is ReasonStorageError; it is for logging, the
// user only ever sees the reason.
type Decision struct {
	Allowed  bool
	Reason   DenyReason
	Snapshot Snapshot
	Err      error
}

// Gate evaluates every inbound command against the guild's subscription
// and the caller's permissions. It never mutates state. The owner
// identity is fixed at construction for the process lifetime.
type Gate struct {
	subs    types.SubscriptionStore
	perms   types.PermissionStore
	ownerID int64
}

func NewGate(subs types.SubscriptionStore, perms types.PermissionStore, ownerID int64) *Gate {
	return &Gate{
		subs:    subs,
		perms:   perms,
		ownerID: ownerID,
	}
}

// Evaluate runs the full gate check for one command invocation.
// allowExpired exempts the command from the expiry check; only the
// owner's extension command uses it, since a freshly bootstrapped guild
// starts with zero days and must still be extendable.
func (g *Gate) Evaluate(ctx context.Context, guildID, callerID int64, auth AuthClass, allowExpired bool, now time.Time) Decision {
	sub, err := g.subs.GetSubscription(ctx, guildID)
	if err != nil {
		return Decision{Reason: ReasonStorageError, Err: err}
	}
	if sub == nil {
		// The guild was never bootstrapped; distinct from expiry.
		return Decision{Reason: ReasonSubscriptionNotFound}
	}

	snapshot := Snapshot{
		ExpiresAt:     sub.ExpiresAt(),
		RemainingDays: sub.RemainingDays(now),
	}

	if !allowExpired && sub.Expired(now) {
		return Decision{Reason: ReasonSubscriptionExpired, Snapshot: snapshot}
	}

	switch auth {
	case AuthOwner:
		if callerID != g.ownerID {
			return Decision{Reason: ReasonPermissionDenied, Snapshot: snapshot}
		}
	case AuthPermissionAdd, AuthPermissionRemove:
		perm, err := g.perms.GetPermission(ctx, guildID, callerID)
		if err != nil {
			return Decision{Reason: ReasonStorageError, Err: err}
		}
		if perm == nil || !perm.Grants() {
			return Decision{Reason: ReasonPermissionDenied, Snapshot: snapshot}
		}
		if auth == AuthPermissionAdd && !perm.CanAddTime {
			return Decision{Reason: ReasonPermissionDenied, Snapshot: snapshot}
		}
		if auth == AuthPermissionRemove && !perm.CanRemoveTime {
			return Decision{Reason: ReasonPermissionDenied, Snapshot: snapshot}
		}
	}

	return Decision{Allowed: true, Snapshot: snapshot}
}
