// Package commands implements the two-phase command registry of spec.md
// §4.2: a global registry populated by decorator-style side effects at
// module-load time, and an initializer that copies those entries into a
// frozen, chat-type-aware registry that is the only thing request
// handling ever reads.
package commands

import (
	"context"

	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// ChatType re-exports reqcontext.ChatType so command descriptors don't need
// to import reqcontext just for the enum in call sites that only deal with
// commands.
type ChatType = reqcontext.ChatType

// Handler executes a command against a built RequestContext, returning the
// plain-text reply.
type Handler func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error)

// Descriptor is the static metadata registered for a command at startup
// (spec.md §3, "Command descriptor").
type Descriptor struct {
	Name               string
	Feature            string
	RequiredPermission tools.Permission
	AllowedChatTypes   []ChatType
	Aliases            []string
	Description        string
	Handler            Handler
}

func (d *Descriptor) allowsChatType(ct ChatType) bool {
	if len(d.AllowedChatTypes) == 0 {
		return true
	}
	for _, allowed := range d.AllowedChatTypes {
		if allowed == ct {
			return true
		}
	}
	return false
}

// key uniquely identifies one (name, chat_type) registration slot.
type key struct {
	name     string
	chatType ChatType
}
