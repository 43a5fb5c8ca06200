// Package router implements the agentic message router of spec.md §4.5:
// the bridge between a transport update and the orchestration pipeline. It
// builds a RequestContext, classifies the update as a command or natural
// language, enforces command permission/chat-type rules, and folds contact
// shares into the registration-invite flow (SPEC_FULL.md §9 item 2).
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kickai/kickai/internal/commands"
	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/format"
	"github.com/kickai/kickai/internal/pipeline"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// Update is a transport-agnostic view of one inbound message. A channel
// adapter (e.g. internal/channels/telegram) is responsible for mapping its
// native update type into this shape — field mapping only, no business
// logic, per spec.md §4.5 responsibility 1.
type Update struct {
	TelegramID  int64
	Username    string
	DisplayName string
	TeamID      string
	ChatID      string
	ChatType    reqcontext.ChatType
	Text        string

	// ContactPhone/ContactTelegramID are populated when the update carries a
	// transport-native contact share (spec.md §4.5 responsibility 5).
	ContactPhone     string
	ContactTelegramID int64
	// InviteToken is the `jwt` query parameter from a `/start` deep link,
	// when present (SPEC_FULL.md §9 item 2).
	InviteToken string
}

const completeRegistrationCommand = "complete_registration"

// unrecognizedCommandReply is the scripted reply for an unresolved command
// name (spec.md §4.5 responsibility 2).
const unrecognizedCommandReply = "❌ Unrecognized command. Send /help to see what I can do."

// needsContactButtonKey is the RequestContext.Metadata key a command handler
// sets to ask the transport layer for a contact-request keyboard on its next
// send (SPEC_FULL.md §6's "ReplyKeyboardMarkup ... when needs_contact_button
// is signalled"). Handlers that want it set it directly on the rc they were
// given; the router reads it back out after the pipeline run completes.
const needsContactButtonKey = "needs_contact_button"

// invitePlayerIDKey mirrors internal/commands' invitePlayerIDMetadataKey —
// the player id an invite token verified to, for a command handler (chiefly
// "start" and "complete_registration") to read back off the RequestContext
// (SPEC_FULL.md §9 item 2).
const invitePlayerIDKey = "invite_player_id"

// broadcastTargetsKey/broadcastTextKey mirror internal/commands' matching
// constants: a handler (currently just "broadcast") sets these to ask the
// transport to additionally deliver a message to named chat audiences after
// replying to the caller.
const (
	broadcastTargetsKey = "broadcast_targets"
	broadcastTextKey    = "broadcast_text"
)

// Response is what Handle returns: the rendered reply text, whether the
// transport should attach a contact-request keyboard to it, and an optional
// broadcast the transport should additionally deliver to named chat
// audiences (spec.md §6's administrative broadcast).
type Response struct {
	Text               string
	NeedsContactButton bool
	BroadcastTargets   []string
	BroadcastText      string
}

func textResponse(text string) Response { return Response{Text: text} }

func responseFrom(rc *reqcontext.RequestContext, text string) Response {
	needsButton, _ := rc.Metadata[needsContactButtonKey].(bool)
	targets, _ := rc.Metadata[broadcastTargetsKey].([]string)
	broadcastText, _ := rc.Metadata[broadcastTextKey].(string)
	return Response{
		Text:               text,
		NeedsContactButton: needsButton,
		BroadcastTargets:   targets,
		BroadcastText:      broadcastText,
	}
}

// Router is the entry point from the transport layer.
type Router struct {
	Commands    *commands.Registry
	Pipeline    *pipeline.Pipeline
	Players     domain.PlayerService
	TeamMembers domain.TeamMemberService
	Invites     *InviteSigner
	Logger      *slog.Logger
}

// New constructs a Router. invites may be nil if the deployment never signs
// invite links (contact shares are then accepted without token
// verification, matching the original's opt-in invite system).
func New(commandReg *commands.Registry, pipe *pipeline.Pipeline, players domain.PlayerService, teamMembers domain.TeamMemberService, invites *InviteSigner, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		Commands:    commandReg,
		Pipeline:    pipe,
		Players:     players,
		TeamMembers: teamMembers,
		Invites:     invites,
		Logger:      logger.With("component", "router"),
	}
}

// Handle is the single entry point a channel adapter calls per inbound
// update. It never returns an error for ordinary request-handling failures
// — those are rendered into the reply itself, matching the pipeline's
// never-panics invariant (spec.md §4.4).
func (r *Router) Handle(ctx context.Context, upd Update) (Response, error) {
	perms, err := r.lookupPermissions(ctx, upd.TeamID, upd.TelegramID, upd.ChatType)
	if err != nil {
		r.Logger.Warn("permission lookup failed", "error", err)
	}

	origin := reqcontext.OriginNaturalLanguage
	if strings.HasPrefix(strings.TrimSpace(upd.Text), "/") {
		origin = reqcontext.OriginCommand
	}
	if upd.ContactPhone != "" {
		origin = reqcontext.OriginCommand
	}

	rc, err := reqcontext.New(upd.TelegramID, upd.Username, upd.DisplayName, upd.TeamID, upd.ChatID, upd.ChatType, upd.Text, perms, origin, time.Now().UTC())
	if err != nil {
		return textResponse(format.Reply(fmt.Sprintf(`{"status":"error","message":%q}`, err.Error()))), nil
	}

	if upd.ContactPhone != "" {
		return r.handleContactShare(ctx, rc, upd)
	}

	if origin == reqcontext.OriginCommand {
		if resp, handled := r.verifyInvite(rc, upd.InviteToken); handled {
			return resp, nil
		}
		return r.handleCommand(ctx, rc)
	}

	rec := r.Pipeline.Run(ctx, rc.MessageText, rc)
	return responseFrom(rc, rec.Aggregation.Reply), nil
}

// lookupPermissions consults the domain services for the caller's roles
// (spec.md §4.5 responsibility 3). A caller unknown to both services is
// simply unregistered — that's a normal, expected state, not a failure.
func (r *Router) lookupPermissions(ctx context.Context, teamID string, telegramID int64, chatType reqcontext.ChatType) (reqcontext.Permissions, error) {
	var perms reqcontext.Permissions

	if r.Players != nil {
		if p, err := r.Players.GetByTelegramID(ctx, teamID, telegramID); err == nil && p != nil {
			perms.IsPlayer = p.Approved
		}
	}
	if r.TeamMembers != nil {
		if m, err := r.TeamMembers.GetByTelegramID(ctx, teamID, telegramID); err == nil && m != nil {
			perms.IsTeamMember = true
			perms.IsAdmin = m.IsAdmin
			if chatType == reqcontext.ChatLeadership {
				perms.IsLeadership = true
			}
		}
	}
	return perms, nil
}

// handleCommand enforces chat-type and permission-level restrictions before
// dispatching to the pipeline with the command name as the task
// description (spec.md §4.5 responsibility 4). The pipeline's execution
// stage is what ultimately invokes the command's registered handler (see
// internal/pipeline's runCommandHandler) — the router's job here stops at
// admission control.
func (r *Router) handleCommand(ctx context.Context, rc *reqcontext.RequestContext) (Response, error) {
	fields := strings.Fields(rc.MessageText)
	if len(fields) == 0 {
		return textResponse(unrecognizedCommandReply), nil
	}
	name := strings.TrimPrefix(strings.ToLower(fields[0]), "/")

	descriptor := r.Commands.Resolve(name, rc.ChatType)
	if descriptor == nil {
		// a known command that is not allowed in this chat type is refused,
		// not reported as unknown
		for _, ct := range []reqcontext.ChatType{reqcontext.ChatMain, reqcontext.ChatLeadership, reqcontext.ChatPrivate, reqcontext.ChatSystem} {
			if r.Commands.Resolve(name, ct) != nil {
				return textResponse("❌ You don't have permission to use this command here."), nil
			}
		}
		return textResponse(unrecognizedCommandReply), nil
	}
	if !permissionSatisfied(descriptor.RequiredPermission, rc.Permissions) {
		return textResponse("❌ You don't have permission to use this command here."), nil
	}

	rec := r.Pipeline.Run(ctx, rc.MessageText, rc)
	return responseFrom(rc, rec.Aggregation.Reply), nil
}

// handleContactShare folds a Telegram contact share into the well-known
// registration-completion command (spec.md §4.5 responsibility 5),
// verifying an invite token when one accompanies the share
// (SPEC_FULL.md §9 item 2).
func (r *Router) handleContactShare(ctx context.Context, rc *reqcontext.RequestContext, upd Update) (Response, error) {
	rc.Metadata["contact_phone"] = upd.ContactPhone
	rc.Metadata["contact_user_id"] = upd.ContactTelegramID

	if resp, handled := r.verifyInvite(rc, upd.InviteToken); handled {
		return resp, nil
	}

	taskDescription := "/" + completeRegistrationCommand + " " + upd.ContactPhone
	descriptor := r.Commands.Resolve(completeRegistrationCommand, rc.ChatType)
	if descriptor == nil {
		return textResponse(unrecognizedCommandReply), nil
	}

	rec := r.Pipeline.Run(ctx, taskDescription, rc)
	return responseFrom(rc, rec.Aggregation.Reply), nil
}

// verifyInvite checks an inbound /start deep-link token (if any) and, when
// valid, stamps the player id it resolves to onto rc.Metadata for a
// downstream handler ("start" or "complete_registration") to consult
// (SPEC_FULL.md §9 item 2). The bool return reports whether the caller
// already got a final response (an invalid/expired/cross-team token) and
// the router should stop dispatching.
func (r *Router) verifyInvite(rc *reqcontext.RequestContext, token string) (Response, bool) {
	if token == "" || r.Invites == nil {
		return Response{}, false
	}
	teamID, playerID, err := r.Invites.Verify(token)
	if err != nil {
		return textResponse("❌ That invite link is invalid or has expired."), true
	}
	if teamID != rc.TeamID {
		return textResponse("❌ That invite link is for a different team."), true
	}
	rc.Metadata[invitePlayerIDKey] = playerID
	return Response{}, false
}

// permissionSatisfied reports whether perms meets required. system-level
// commands are never reachable from a chat caller — they exist only for
// maintenance operations dispatched by a system-origin RequestContext.
func permissionSatisfied(required tools.Permission, perms reqcontext.Permissions) bool {
	switch required {
	case tools.PermissionPublic, "":
		return true
	case tools.PermissionPlayer:
		return perms.IsRegistered()
	case tools.PermissionLeadership:
		return perms.IsLeadership
	case tools.PermissionAdmin:
		return perms.IsAdmin
	case tools.PermissionSystem:
		return false
	default:
		return false
	}
}
