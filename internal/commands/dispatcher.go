package commands

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mkorobov/playtime-bot/internal/access"
	"github.com/mkorobov/playtime-bot/internal/contextkeys"
	"github.com/mkorobov/playtime-bot/internal/messages"
	"github.com/mkorobov/playtime-bot/types"
)

// Request is one command invocation as received from the transport.
type Request struct {
	Command  string
	GuildID  int64
	CallerID int64
	Args     []string
	Lang     messages.Lang
}

// Reply is what the transport sends back. Private replies are shown only
// to the caller.
type Reply struct {
	Text    string
	Private bool
}

// Dispatcher runs one request end to end: option parsing, gate
// evaluation, command body.
type Dispatcher struct {
	gate  *access.Gate
	subs  types.SubscriptionStore
	perms types.PermissionStore
	now   func() time.Time
}

func NewDispatcher(gate *access.Gate, subs types.SubscriptionStore, perms types.PermissionStore) *Dispatcher {
	return &Dispatcher{
		gate:  gate,
		subs:  subs,
		perms: perms,
		now:   time.Now,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Reply {
	def, ok := Lookup(req.Command)
	if !ok {
		return Reply{Text: messages.UnknownCommand(req.Lang), Private: true}
	}

	opts, err := ParseOptions(def, req.Args)
	if err != nil {
		return Reply{Text: messages.InvalidParameters(req.Lang, def.Usage()), Private: true}
	}

	now := d.now().UTC()
	decision := d.gate.Evaluate(ctx, req.GuildID, req.CallerID, def.Auth, def.AllowExpired, now)
	if !decision.Allowed {
		return d.denied(ctx, req, decision)
	}

	if !def.Implemented {
		return Reply{Text: messages.NotImplemented(req.Lang, def.Name), Private: true}
	}

	switch def.Name {
	case CmdExtendTime:
		return d.extendTime(ctx, req, def, opts, now)
	case CmdGrantAccess:
		return d.grantAccess(ctx, req, def, opts)
	case CmdRevokeAccess:
		return d.revokeAccess(ctx, req, def, opts)
	case CmdCheckSubscription:
		return Reply{Text: messages.SubscriptionStatus(req.Lang, decision.Snapshot.ExpiresAt, decision.Snapshot.RemainingDays)}
	}

	return Reply{Text: messages.NotImplemented(req.Lang, def.Name), Private: true}
}

func (d *Dispatcher) denied(ctx context.Context, req Request, decision access.Decision) Reply {
	if decision.Reason == access.ReasonStorageError {
		log.Printf("[%s] gate: command=%s guild=%d caller=%d: %v",
			requestID(ctx), req.Command, req.GuildID, req.CallerID, decision.Err)
		return Reply{Text: messages.ErrorDefault(req.Lang), Private: true}
	}

	var text string
	switch decision.Reason {
	case access.ReasonSubscriptionNotFound:
		text = messages.SubscriptionNotFound(req.Lang)
	case access.ReasonSubscriptionExpired:
		text = messages.SubscriptionExpired(req.Lang)
	default:
		text = messages.PermissionDenied(req.Lang)
	}
	return Reply{Text: text, Private: true}
}

func (d *Dispatcher) extendTime(ctx context.Context, req Request, def *Definition, opts Options, now time.Time) Reply {
	days := opts.Int("days")
	if days <= 0 {
		return Reply{Text: messages.InvalidParameters(req.Lang, def.Usage()), Private: true}
	}

	sub, err := d.subs.ExtendSubscription(ctx, req.GuildID, days)
	if err != nil {
		log.Printf("[%s] extend: guild=%d: %v", requestID(ctx), req.GuildID, err)
		return Reply{Text: messages.ErrorDefault(req.Lang), Private: true}
	}
	if sub == nil {
		// The record vanished between the gate check and the update.
		return Reply{Text: messages.SubscriptionNotFound(req.Lang), Private: true}
	}
	return Reply{Text: messages.ExtendDone(req.Lang, days, sub.ExpiresAt(), sub.RemainingDays(now))}
}

func (d *Dispatcher) grantAccess(ctx context.Context, req Request, def *Definition, opts Options) Reply {
	userID, err := parseUserID(opts.String("user"))
	if err != nil {
		return Reply{Text: messages.InvalidParameters(req.Lang, def.Usage()), Private: true}
	}

	perm := types.Permission{
		GuildID:       req.GuildID,
		UserID:        userID,
		CanAddTime:    opts.Bool("addtime"),
		CanRemoveTime: opts.Bool("removetime"),
	}
	if err := d.perms.UpsertPermission(ctx, perm); err != nil {
		log.Printf("[%s] grant: guild=%d user=%d: %v", requestID(ctx), req.GuildID, userID, err)
		return Reply{Text: messages.ErrorDefault(req.Lang), Private: true}
	}
	return Reply{Text: messages.GrantDone(req.Lang, userID, perm.CanAddTime, perm.CanRemoveTime), Private: true}
}

func (d *Dispatcher) revokeAccess(ctx context.Context, req Request, def *Definition, opts Options) Reply {
	userID, err := parseUserID(opts.String("user"))
	if err != nil {
		return Reply{Text: messages.InvalidParameters(req.Lang, def.Usage()), Private: true}
	}

	// Revoking a pair that has no record is still a success.
	if err := d.perms.DeletePermission(ctx, req.GuildID, userID); err != nil {
		log.Printf("[%s] revoke: guild=%d user=%d: %v", requestID(ctx), req.GuildID, userID, err)
		return Reply{Text: messages.ErrorDefault(req.Lang), Private: true}
	}
	return Reply{Text: messages.RevokeDone(req.Lang, userID), Private: true}
}

func parseUserID(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	return strconv.ParseInt(s, 10, 64)
}

func requestID(ctx context.Context) string {
	id, _ := contextkeys.GetRequestID(ctx)
	return id
}
