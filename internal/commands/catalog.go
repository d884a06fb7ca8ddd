// Package commands holds the declarative command catalog and the
// transport-agnostic dispatcher that runs every command through the
// access gate.
package commands

import (
	"strings"

	"github.com/mkorobov/playtime-bot/internal/access"
)

const (
	CmdAddTime           = "addtime"
	CmdListTimes         = "listtimes"
	CmdExtendTime        = "extendtime"
	CmdGrantAccess       = "grantaccess"
	CmdRevokeAccess      = "revokeaccess"
	CmdCheckSubscription = "checksubscription"
	CmdResetPlaytime     = "resetplaytime"
	CmdResetAllPlaytimes = "resetallplaytimes"
	CmdRemovePlaytime    = "removeplaytime"
)

// Definition describes one command: its typed options and the
// authorization class the gate enforces before the body runs.
type Definition struct {
	Name    string
	Options []Option
	Auth    access.AuthClass

	// AllowExpired exempts the command from the expiry check. Only the
	// extension command sets it: a freshly bootstrapped guild starts
	// with zero days and the owner must still be able to extend it.
	AllowExpired bool

	// Implemented marks commands with a real body; the rest reply with
	// an explicit not-implemented notice after passing the gate.
	Implemented bool
}

// Usage renders the command's call syntax for error replies.
func (d *Definition) Usage() string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(d.Name)
	for _, opt := range d.Options {
		b.WriteString(" ")
		if opt.Required {
			b.WriteString("<" + opt.Name + ">")
		} else {
			b.WriteString("[" + opt.Name + "]")
		}
	}
	return b.String()
}

var catalog = []Definition{
	{
		Name: CmdAddTime,
		Options: []Option{
			{Name: "steam_hex", Type: OptionString, Required: true},
			{Name: "play_time", Type: OptionInteger, Required: true},
		},
		Auth: access.AuthPermissionAdd,
	},
	{
		Name: CmdListTimes,
		Options: []Option{
			{Name: "page", Type: OptionInteger, Required: false},
		},
		Auth: access.AuthNone,
	},
	{
		Name: CmdExtendTime,
		Options: []Option{
			{Name: "days", Type: OptionInteger, Required: true},
		},
		Auth:         access.AuthOwner,
		AllowExpired: true,
		Implemented:  true,
	},
	{
		Name: CmdGrantAccess,
		Options: []Option{
			{Name: "user", Type: OptionString, Required: true},
			{Name: "addtime", Type: OptionBoolean, Required: true},
			{Name: "removetime", Type: OptionBoolean, Required: true},
		},
		Auth:        access.AuthOwner,
		Implemented: true,
	},
	{
		Name: CmdRevokeAccess,
		Options: []Option{
			{Name: "user", Type: OptionString, Required: true},
		},
		Auth:        access.AuthOwner,
		Implemented: true,
	},
	{
		Name:        CmdCheckSubscription,
		Auth:        access.AuthNone,
		Implemented: true,
	},
	{
		Name: CmdResetPlaytime,
		Options: []Option{
			{Name: "user", Type: OptionString, Required: true},
		},
		Auth: access.AuthPermissionRemove,
	},
	{
		Name: CmdResetAllPlaytimes,
		Auth: access.AuthOwner,
	},
	{
		Name: CmdRemovePlaytime,
		Options: []Option{
			{Name: "steam_hex", Type: OptionString, Required: true},
		},
		Auth: access.AuthPermissionRemove,
	},
}

// Lookup finds a command definition by name.
func Lookup(name string) (*Definition, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i], true
		}
	}
	return nil, false
}
