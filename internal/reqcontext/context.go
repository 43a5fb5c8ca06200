// Package reqcontext defines RequestContext, the single per-request
// descriptor that flows end-to-end from the Telegram ingress through the
// orchestration pipeline to the tools it invokes (spec.md §3).
package reqcontext

import (
	"time"

	"github.com/kickai/kickai/internal/kerrors"
)

// ChatType is the scope of a conversation.
type ChatType string

const (
	ChatMain       ChatType = "main"
	ChatLeadership ChatType = "leadership"
	ChatPrivate    ChatType = "private"
	ChatSystem     ChatType = "system"
)

// Origin identifies how a RequestContext came to exist.
type Origin string

const (
	OriginTelegramMessage Origin = "telegram_message"
	OriginCommand         Origin = "command"
	OriginNaturalLanguage Origin = "natural_language"
	OriginSystem          Origin = "system"
)

// Permissions is the caller's permission snapshot at context-creation time.
// Invariant: IsAdmin implies IsPlayer or IsTeamMember; the same holds for
// IsLeadership.
type Permissions struct {
	IsPlayer     bool `json:"is_player"`
	IsTeamMember bool `json:"is_team_member"`
	IsAdmin      bool `json:"is_admin"`
	IsLeadership bool `json:"is_leadership"`
}

// IsRegistered reports whether the caller is known to the team in any role.
func (p Permissions) IsRegistered() bool {
	return p.IsPlayer || p.IsTeamMember
}

// Validate enforces the admin/leadership implication invariants.
func (p Permissions) Validate() error {
	if p.IsAdmin && !(p.IsPlayer || p.IsTeamMember) {
		return kerrors.Validation("is_admin requires is_player or is_team_member", nil)
	}
	if p.IsLeadership && !(p.IsPlayer || p.IsTeamMember) {
		return kerrors.Validation("is_leadership requires is_player or is_team_member", nil)
	}
	return nil
}

// RequestContext is the descriptor passed to every pipeline stage and every
// tool invocation. It is constructed once, by the router (spec.md §9,
// "Per-call context extraction"). Its fields are exported and nothing
// prevents writes; Metadata is written after construction by the router and
// by command handlers, including those wrapped as tools (contact_phone,
// invite_player_id, needs_contact_button, broadcast_targets, ...).
type RequestContext struct {
	// Identity
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	// Tenancy
	TeamID string `json:"team_id"`

	// Chat scope
	ChatID   string   `json:"chat_id"`
	ChatType ChatType `json:"chat_type"`

	// Payload
	MessageText string `json:"message_text"`

	// Permissions snapshot
	Permissions Permissions `json:"permissions"`

	// Origin and bookkeeping
	Origin    Origin         `json:"origin"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
}

// IsRegistered mirrors Permissions.IsRegistered for convenient access off
// the context itself.
func (c *RequestContext) IsRegistered() bool {
	return c.Permissions.IsRegistered()
}

const maxTeamIDLength = 20

// New constructs and validates a RequestContext. It is the only supported
// way to build one — tools and pipeline stages must never assemble a
// RequestContext by hand.
func New(
	telegramID int64,
	username, displayName, teamID, chatID string,
	chatType ChatType,
	messageText string,
	perms Permissions,
	origin Origin,
	now time.Time,
) (*RequestContext, error) {
	if telegramID <= 0 {
		return nil, kerrors.Validation("telegram_id must be positive", nil)
	}
	if teamID == "" {
		return nil, kerrors.Validation("team_id is required", nil)
	}
	if len(teamID) > maxTeamIDLength {
		return nil, kerrors.Validation("team_id exceeds 20 characters", nil)
	}
	if chatID == "" {
		return nil, kerrors.Validation("chat_id is required", nil)
	}
	switch chatType {
	case ChatMain, ChatLeadership, ChatPrivate, ChatSystem:
	default:
		return nil, kerrors.Validation("chat_type is invalid", nil)
	}
	if username == "" {
		username = "unknown"
	}
	if err := perms.Validate(); err != nil {
		return nil, err
	}

	return &RequestContext{
		TelegramID:  telegramID,
		Username:    username,
		DisplayName: displayName,
		TeamID:      teamID,
		ChatID:      chatID,
		ChatType:    chatType,
		MessageText: messageText,
		Permissions: perms,
		Origin:      origin,
		CreatedAt:   now,
		Metadata:    map[string]any{},
	}, nil
}

// ToMap serializes the context to a plain map for logging and cross-agent
// delegation (spec.md §8, round-trip property).
func (c *RequestContext) ToMap() map[string]any {
	return map[string]any{
		"telegram_id":    c.TelegramID,
		"username":       c.Username,
		"display_name":   c.DisplayName,
		"team_id":        c.TeamID,
		"chat_id":        c.ChatID,
		"chat_type":      string(c.ChatType),
		"message_text":   c.MessageText,
		"is_player":      c.Permissions.IsPlayer,
		"is_team_member": c.Permissions.IsTeamMember,
		"is_admin":       c.Permissions.IsAdmin,
		"is_leadership":  c.Permissions.IsLeadership,
		"origin":         string(c.Origin),
		"created_at":     c.CreatedAt,
		"metadata":       c.Metadata,
	}
}

// requiredKeys are the fields FromMap refuses to default (spec.md §8).
var requiredKeys = []string{"telegram_id", "team_id", "chat_id", "chat_type", "message_text", "username"}

// FromMap reconstructs a RequestContext from a map produced by ToMap. It is
// the inverse used by the round-trip property: FromMap(ctx.ToMap()) == ctx.
func FromMap(m map[string]any) (*RequestContext, error) {
	for _, key := range requiredKeys {
		if _, ok := m[key]; !ok {
			return nil, kerrors.Validation("missing required field: "+key, nil)
		}
	}

	telegramID, _ := toInt64(m["telegram_id"])
	teamID, _ := m["team_id"].(string)
	chatID, _ := m["chat_id"].(string)
	chatType, _ := m["chat_type"].(string)
	messageText, _ := m["message_text"].(string)
	username, _ := m["username"].(string)
	displayName, _ := m["display_name"].(string)
	origin, _ := m["origin"].(string)

	perms := Permissions{
		IsPlayer:     toBool(m["is_player"]),
		IsTeamMember: toBool(m["is_team_member"]),
		IsAdmin:      toBool(m["is_admin"]),
		IsLeadership: toBool(m["is_leadership"]),
	}

	createdAt, _ := m["created_at"].(time.Time)
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	metadata, _ := m["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}

	ctx, err := New(telegramID, username, displayName, teamID, chatID, ChatType(chatType), messageText, perms, Origin(origin), createdAt)
	if err != nil {
		return nil, err
	}
	ctx.Metadata = metadata
	return ctx, nil
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
