package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/domain/validate"
	"github.com/kickai/kickai/internal/format"
	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// needsContactButtonMetadataKey mirrors internal/router's needsContactButtonKey
// constant (duplicated rather than imported — router depends on commands, not
// the other way around). A handler sets it on the RequestContext it was
// given to ask the transport for a contact-request keyboard on the reply.
const needsContactButtonMetadataKey = "needs_contact_button"

// invitePlayerIDMetadataKey mirrors the key router.handleContactShare (and,
// for a bare /start, router.Handle) sets once an invite token verifies —
// the player id the invite was minted for (SPEC_FULL.md §9 item 2).
const invitePlayerIDMetadataKey = "invite_player_id"

// broadcastTargetsMetadataKey/broadcastTextMetadataKey mirror
// internal/router's matching constants: a handler sets these to ask the
// transport layer to additionally fan the reply out to named chat
// audiences (currently just "main") after replying to the caller.
const (
	broadcastTargetsMetadataKey = "broadcast_targets"
	broadcastTextMetadataKey    = "broadcast_text"
)

// marshalEnvelope renders a tool/command result map to JSON for format.Reply
// to parse back out; the marshal is infallible for the map shapes built in
// this file (strings, bools, ints, and []any of the same).
func marshalEnvelope(v map[string]any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Dependencies are the domain collaborators the built-in command module
// closes over. Each command module is a ModuleLoader built from a
// Dependencies value — this is how runtime wiring (store-backed services)
// reaches the global registry's decorator-style registration without the
// commands package importing a concrete store implementation (spec.md
// §4.2's registry stays storage-agnostic).
type Dependencies struct {
	Players      domain.PlayerService
	TeamMembers  domain.TeamMemberService
	Matches      domain.MatchService
	Attendance   domain.AttendanceService
}

// BuiltinModule returns the ModuleLoader that registers KICKAI's core
// command set (spec.md §6's minimum conforming surface): /start, /help,
// /register, /myinfo, /list, /status, plus feature-scoped commands for
// adding/approving/removing players, recording and querying attendance,
// marking availability and selecting a squad, creating and listing
// matches, administrative broadcast, and team-member management. It is
// passed to Initialize alongside any feature-specific modules.
func BuiltinModule(deps Dependencies) ModuleLoader {
	return func() {
		RegisterGlobal(Descriptor{
			Name:               "start",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPublic,
			Description:        "Begin onboarding, optionally completing an invite-link deep link",
			Handler:            startHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "help",
			Feature:            "communication",
			RequiredPermission: tools.PermissionPublic,
			Description:        "List available commands",
			Handler:            helpHandler,
		})

		RegisterGlobal(Descriptor{
			Name:               "myinfo",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPublic,
			Description:        "Show your registration status",
			Handler:            myInfoHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "register",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPublic,
			Description:        "Register as a player: /register <player_id> <name> <phone>",
			Handler:            registerHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "approve",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Approve a pending player: /approve <player_id>",
			Handler:            approveHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "addplayer",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Add and approve a player directly: /addplayer <player_id> <name> <phone>",
			Handler:            addPlayerHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "removeplayer",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Remove a player record: /removeplayer <player_id>",
			Handler:            removePlayerHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "list",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPlayer,
			Description:        "List registered players",
			Handler:            listHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "status",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPublic,
			Description:        "Check a player's approval status: /status <player_id>",
			Handler:            statusHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "complete_registration",
			Feature:            "player_management",
			RequiredPermission: tools.PermissionPublic,
			Description:        "Synthetic command dispatched by the router when a contact is shared",
			Handler:            completeRegistrationHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "creatematch",
			Feature:            "match_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Schedule a fixture: /creatematch <opponent> <venue> <kickoff_unix>",
			Handler:            createMatchHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "matches",
			Feature:            "match_management",
			RequiredPermission: tools.PermissionPlayer,
			Description:        "List scheduled fixtures",
			Handler:            listMatchesHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "attendance",
			Feature:            "match_management",
			RequiredPermission: tools.PermissionPlayer,
			Description:        "Record your availability: /attendance <match_id> <available|unavailable|maybe>",
			Handler:            attendanceHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "attendancelist",
			Feature:            "match_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "List recorded attendance for a fixture: /attendancelist <match_id>",
			Handler:            attendanceListHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "selectsquad",
			Feature:            "match_management",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Mark players selected for a fixture: /selectsquad <match_id> <player_id> [<player_id>...]",
			Handler:            selectSquadHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "broadcast",
			Feature:            "communication",
			RequiredPermission: tools.PermissionLeadership,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Send an announcement to the main chat: /broadcast <message>",
			Handler:            broadcastHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "addmember",
			Feature:            "team_management",
			RequiredPermission: tools.PermissionAdmin,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Add a team member: /addmember <member_id> <name> [admin]",
			Handler:            addMemberHandler(deps),
		})

		RegisterGlobal(Descriptor{
			Name:               "removemember",
			Feature:            "team_management",
			RequiredPermission: tools.PermissionAdmin,
			AllowedChatTypes:   []ChatType{reqcontext.ChatLeadership},
			Description:        "Remove a team member: /removemember <member_id>",
			Handler:            removeMemberHandler(deps),
		})
	}
}

func helpHandler(_ context.Context, _ *reqcontext.RequestContext, _ string) (string, error) {
	reg := GetInitializedRegistry()
	names := reg.Names()
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		b.WriteString("/" + name + "\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func myInfoHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, _ string) (string, error) {
		p, err := deps.Players.GetByTelegramID(ctx, rc.TeamID, rc.TelegramID)
		if err != nil {
			rc.Metadata[needsContactButtonMetadataKey] = true
			return format.Reply(`{"status":"error","message":"you are not registered yet — share your contact to link a pending registration"}`), nil
		}
		return format.Reply(envelopeFor(p)), nil
	}
}

func registerHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 3 {
			return format.Reply(`{"status":"error","message":"usage: /register <player_id> <name> <phone>"}`), nil
		}
		id := strings.ToUpper(fields[0])
		phone := fields[len(fields)-1]
		name := strings.Join(fields[1:len(fields)-1], " ")
		if !validate.IsValidPlayerID(id) {
			return format.Reply(`{"status":"error","message":"player id must look like JS1"}`), nil
		}

		p, err := deps.Players.Register(ctx, domain.Player{
			ID: id, TeamID: rc.TeamID, TelegramID: rc.TelegramID, Name: name, Phone: phone,
		})
		if err != nil {
			return format.Reply(fmt.Sprintf(`{"status":"error","message":%q}`, kerrors.CodeOf(err))), nil
		}
		rc.Metadata[needsContactButtonMetadataKey] = true
		return format.Reply(envelopeFor(p)), nil
	}
}

func approveHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		id := strings.ToUpper(strings.TrimSpace(args))
		if id == "" {
			return format.Reply(`{"status":"error","message":"usage: /approve <player_id>"}`), nil
		}
		if !rc.Permissions.IsLeadership && !rc.Permissions.IsAdmin {
			return format.Reply(`{"status":"error","message":"only leadership can approve players"}`), nil
		}
		if err := deps.Players.Approve(ctx, rc.TeamID, id); err != nil {
			return format.Reply(`{"status":"error","message":"player not found"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"%s approved"}`, id)), nil
	}
}

func listHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, _ string) (string, error) {
		players, err := deps.Players.List(ctx, rc.TeamID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"could not list players"}`), nil
		}
		names := make([]any, 0, len(players))
		for _, p := range players {
			names = append(names, p.Name)
		}
		env := map[string]any{"status": "success", "message": "Players", "players": names}
		raw, _ := marshalEnvelope(env)
		return format.Reply(raw), nil
	}
}

func statusHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		id := strings.ToUpper(strings.TrimSpace(args))
		if id == "" {
			return format.Reply(`{"status":"error","message":"usage: /status <player_id>"}`), nil
		}
		p, err := deps.Players.Get(ctx, rc.TeamID, id)
		if err != nil {
			return format.Reply(`{"status":"error","message":"player not found"}`), nil
		}
		return format.Reply(envelopeFor(p)), nil
	}
}

// completeRegistrationHandler links the caller's Telegram id to the player
// record matching the shared contact (the router's handleContactShare
// builds the args string as the contact phone). When the contact share
// accompanied a verified invite-link token, the invite's player id — set
// on rc.Metadata by the router — takes priority over the phone, since it
// identifies the exact pending record the link was minted for rather than
// relying on a phone match (SPEC_FULL.md §9 item 2).
func completeRegistrationHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		phone := strings.TrimSpace(args)
		query := phone
		if invitePlayerID, ok := rc.Metadata[invitePlayerIDMetadataKey].(string); ok && invitePlayerID != "" {
			query = invitePlayerID
		}
		if query == "" {
			rc.Metadata[needsContactButtonMetadataKey] = true
			return format.Reply(`{"status":"error","message":"no contact phone number was shared"}`), nil
		}
		p, err := deps.Players.LinkTelegramID(ctx, rc.TeamID, query, rc.TelegramID)
		if err != nil {
			rc.Metadata[needsContactButtonMetadataKey] = true
			return format.Reply(`{"status":"error","message":"no pending registration matches that phone number"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"Registration complete, welcome %s"}`, p.Name)), nil
	}
}

// startHandler answers a bare /start, or one whose deep-link payload
// carried a jwt that the router already verified into
// invitePlayerIDMetadataKey (SPEC_FULL.md §9 item 2). A verified invite
// prompts the caller to share their contact to finish linking it; anything
// else gets the generic onboarding message.
func startHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, _ string) (string, error) {
		playerID, _ := rc.Metadata[invitePlayerIDMetadataKey].(string)
		if playerID == "" {
			return format.Reply(`{"status":"success","message":"Welcome to KICKAI! Send /register <player_id> <name> <phone> to join, or /help to see what I can do."}`), nil
		}
		p, err := deps.Players.Get(ctx, rc.TeamID, playerID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"that invite link no longer matches a pending registration"}`), nil
		}
		rc.Metadata[needsContactButtonMetadataKey] = true
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"Welcome %s! Share your contact to finish linking your invite."}`, p.Name)), nil
	}
}

// addPlayerHandler lets leadership register and immediately approve a
// player directly, distinct from /register's self-service, unapproved
// flow (spec.md §6).
func addPlayerHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 3 {
			return format.Reply(`{"status":"error","message":"usage: /addplayer <player_id> <name> <phone>"}`), nil
		}
		id := strings.ToUpper(fields[0])
		phone := fields[len(fields)-1]
		name := strings.Join(fields[1:len(fields)-1], " ")
		if !validate.IsValidPlayerID(id) {
			return format.Reply(`{"status":"error","message":"player id must look like JS1"}`), nil
		}

		if _, err := deps.Players.Register(ctx, domain.Player{ID: id, TeamID: rc.TeamID, Name: name, Phone: phone}); err != nil {
			return format.Reply(fmt.Sprintf(`{"status":"error","message":%q}`, kerrors.CodeOf(err))), nil
		}
		if err := deps.Players.Approve(ctx, rc.TeamID, id); err != nil {
			return format.Reply(fmt.Sprintf(`{"status":"error","message":%q}`, kerrors.CodeOf(err))), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"%s added and approved"}`, id)), nil
	}
}

// removePlayerHandler deletes a player record outright.
func removePlayerHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		id := strings.ToUpper(strings.TrimSpace(args))
		if id == "" {
			return format.Reply(`{"status":"error","message":"usage: /removeplayer <player_id>"}`), nil
		}
		if err := deps.Players.Remove(ctx, rc.TeamID, id); err != nil {
			return format.Reply(`{"status":"error","message":"player not found"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"%s removed"}`, id)), nil
	}
}

// createMatchHandler schedules a new fixture.
func createMatchHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 3 {
			return format.Reply(`{"status":"error","message":"usage: /creatematch <opponent> <venue> <kickoff_unix>"}`), nil
		}
		kickoff, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			return format.Reply(`{"status":"error","message":"kickoff_unix must be a unix timestamp"}`), nil
		}
		venue := fields[len(fields)-2]
		opponent := strings.Join(fields[:len(fields)-2], " ")

		m, err := deps.Matches.Create(ctx, domain.Match{TeamID: rc.TeamID, Opponent: opponent, Venue: venue, KickoffUnix: kickoff})
		if err != nil {
			return format.Reply(`{"status":"error","message":"could not create match"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"Match created","match_id":%q}`, m.ID)), nil
	}
}

// listMatchesHandler lists every scheduled fixture for the caller's team.
func listMatchesHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, _ string) (string, error) {
		matches, err := deps.Matches.List(ctx, rc.TeamID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"could not list matches"}`), nil
		}
		items := make([]any, 0, len(matches))
		for _, m := range matches {
			items = append(items, fmt.Sprintf("%s vs %s @ %s", m.ID, m.Opponent, m.Venue))
		}
		env := map[string]any{"status": "success", "message": "Matches", "matches": items}
		raw, _ := marshalEnvelope(env)
		return format.Reply(raw), nil
	}
}

// attendanceHandler records the caller's own declared availability for a
// fixture (spec.md §6's "marking availability").
func attendanceHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 2 {
			return format.Reply(`{"status":"error","message":"usage: /attendance <match_id> <available|unavailable|maybe>"}`), nil
		}
		matchID := fields[0]
		status := domain.AvailabilityStatus(strings.ToLower(fields[1]))
		switch status {
		case domain.AvailabilityAvailable, domain.AvailabilityUnavailable, domain.AvailabilityMaybe:
		default:
			return format.Reply(`{"status":"error","message":"availability must be available, unavailable, or maybe"}`), nil
		}

		player, err := deps.Players.GetByTelegramID(ctx, rc.TeamID, rc.TelegramID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"you are not a registered player"}`), nil
		}
		if err := deps.Attendance.Record(ctx, domain.Attendance{
			TeamID: rc.TeamID, MatchID: matchID, PlayerID: player.ID, Availability: status,
		}); err != nil {
			return format.Reply(`{"status":"error","message":"could not record attendance"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"Availability recorded as %s"}`, status)), nil
	}
}

// attendanceListHandler lists every recorded attendance entry for a fixture
// (spec.md §6's "querying attendance").
func attendanceListHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		matchID := strings.TrimSpace(args)
		if matchID == "" {
			return format.Reply(`{"status":"error","message":"usage: /attendancelist <match_id>"}`), nil
		}
		records, err := deps.Attendance.ListForMatch(ctx, rc.TeamID, matchID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"could not list attendance"}`), nil
		}
		items := make([]any, 0, len(records))
		for _, a := range records {
			selected := ""
			if a.Selected {
				selected = " (selected)"
			}
			items = append(items, fmt.Sprintf("%s: %s%s", a.PlayerID, a.Availability, selected))
		}
		env := map[string]any{"status": "success", "message": "Attendance", "records": items}
		raw, _ := marshalEnvelope(env)
		return format.Reply(raw), nil
	}
}

// selectSquadHandler marks the given players Selected for a fixture,
// preserving any availability they already recorded and defaulting
// unrecorded players to available (spec.md §6's "selecting a squad").
func selectSquadHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 2 {
			return format.Reply(`{"status":"error","message":"usage: /selectsquad <match_id> <player_id> [<player_id>...]"}`), nil
		}
		matchID := fields[0]

		existing, err := deps.Attendance.ListForMatch(ctx, rc.TeamID, matchID)
		if err != nil {
			return format.Reply(`{"status":"error","message":"could not load existing attendance"}`), nil
		}
		byPlayer := make(map[string]domain.Attendance, len(existing))
		for _, a := range existing {
			byPlayer[a.PlayerID] = a
		}

		selected := make(map[string]bool, len(fields)-1)
		for _, id := range fields[1:] {
			selected[strings.ToUpper(id)] = true
		}
		for playerID := range selected {
			a, ok := byPlayer[playerID]
			if !ok {
				a = domain.Attendance{TeamID: rc.TeamID, MatchID: matchID, PlayerID: playerID, Availability: domain.AvailabilityAvailable}
			}
			a.Selected = true
			if err := deps.Attendance.Record(ctx, a); err != nil {
				return format.Reply(`{"status":"error","message":"could not select squad"}`), nil
			}
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"Squad selected: %d players"}`, len(selected))), nil
	}
}

// broadcastHandler stages an announcement for the main chat. It never
// sends anything itself — it signals the transport layer via
// rc.Metadata, which the router surfaces on its Response and the channel
// adapter fans out to the configured chat after replying to the caller
// (spec.md §6's "administrative broadcast"; there was previously no
// multi-recipient send path anywhere in the transport layer).
func broadcastHandler(_ Dependencies) Handler {
	return func(_ context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		message := strings.TrimSpace(args)
		if message == "" {
			return format.Reply(`{"status":"error","message":"usage: /broadcast <message>"}`), nil
		}
		rc.Metadata[broadcastTargetsMetadataKey] = []string{"main"}
		rc.Metadata[broadcastTextMetadataKey] = message
		return format.Reply(`{"status":"success","message":"Broadcast queued for the main chat"}`), nil
	}
}

// addMemberHandler adds a team member record, trailing "admin" granting
// administrator rights.
func addMemberHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		fields := strings.Fields(args)
		if len(fields) < 2 {
			return format.Reply(`{"status":"error","message":"usage: /addmember <member_id> <name> [admin]"}`), nil
		}
		id := strings.ToUpper(fields[0])
		isAdmin := strings.EqualFold(fields[len(fields)-1], "admin")
		nameFields := fields[1:]
		if isAdmin {
			nameFields = fields[1 : len(fields)-1]
		}
		name := strings.Join(nameFields, " ")

		if _, err := deps.TeamMembers.Add(ctx, domain.TeamMember{ID: id, TeamID: rc.TeamID, Name: name, IsAdmin: isAdmin}); err != nil {
			return format.Reply(fmt.Sprintf(`{"status":"error","message":%q}`, kerrors.CodeOf(err))), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"%s added as a team member"}`, id)), nil
	}
}

// removeMemberHandler deletes a team member record.
func removeMemberHandler(deps Dependencies) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		id := strings.ToUpper(strings.TrimSpace(args))
		if id == "" {
			return format.Reply(`{"status":"error","message":"usage: /removemember <member_id>"}`), nil
		}
		if err := deps.TeamMembers.Remove(ctx, rc.TeamID, id); err != nil {
			return format.Reply(`{"status":"error","message":"team member not found"}`), nil
		}
		return format.Reply(fmt.Sprintf(`{"status":"success","message":"%s removed"}`, id)), nil
	}
}

func envelopeFor(p *domain.Player) string {
	raw, _ := marshalEnvelope(map[string]any{
		"status":   "success",
		"message":  "Player",
		"player_id": p.ID,
		"name":      p.Name,
		"approved":  p.Approved,
	})
	return raw
}
