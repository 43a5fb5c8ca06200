// Package tools implements the tool registry: discovery, storage,
// resolution, access control, and context-validated dispatch for every
// named operation an agent can call (spec.md §4.1).
package tools

import (
	"context"

	"github.com/kickai/kickai/internal/reqcontext"
)

// EntityType is the kind of principal a tool operates on.
type EntityType string

const (
	EntityPlayer     EntityType = "player"
	EntityTeamMember EntityType = "team_member"
	EntityBoth       EntityType = "both"
	EntityNeither    EntityType = "neither"
)

// Type is the functional category of a tool.
type Type string

const (
	TypeCommunication Type = "communication"
	TypePlayerMgmt    Type = "player_management"
	TypeTeamMgmt      Type = "team_management"
	TypePayment       Type = "payment"
	TypeHelp          Type = "help"
	TypeSystem        Type = "system"
)

// Category distinguishes core engine tools from feature-specific ones.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryFeature Category = "feature"
	CategoryUtility Category = "utility"
)

// Permission is the minimum permission level required to invoke a tool.
type Permission string

const (
	PermissionPublic      Permission = "public"
	PermissionPlayer      Permission = "player"
	PermissionLeadership  Permission = "leadership"
	PermissionAdmin       Permission = "admin"
	PermissionSystem      Permission = "system"
)

// Envelope is the JSON-shaped result every tool returns (spec.md §6,
// "Tool call surface"): tools never raise, they render failures as
// Status == "error".
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Handler is the async operation a tool performs. It always returns a JSON
// envelope string (or an error only for truly unrecoverable plumbing
// failures — handlers are expected to catch their own domain errors and
// render them into the envelope per spec.md §6).
type Handler func(ctx context.Context, rc *reqcontext.RequestContext, args map[string]any) (string, error)

// AccessControl maps an agent role to the entity types it may invoke a tool
// for. An empty/nil map means "open to any agent" (spec.md §4.1).
type AccessControl map[string][]EntityType

// Allows reports whether role may invoke a tool carrying this
// access-control map for the given entity type.
func (ac AccessControl) Allows(role string, entity EntityType) bool {
	if len(ac) == 0 {
		return true
	}
	entities, ok := ac[role]
	if !ok {
		return false
	}
	for _, e := range entities {
		if e == entity {
			return true
		}
	}
	return false
}

// Descriptor is the static metadata registered for one tool (spec.md §3,
// "Tool descriptor").
type Descriptor struct {
	ToolID             string
	Aliases            []string
	Type               Type
	Category           Category
	FeatureModule      string
	Version            string
	Enabled            bool
	RequiredPermission Permission
	AllowedEntities    []EntityType
	AccessControl      AccessControl
	RequiresContext    bool
	ContextSchema      []byte // raw JSON Schema, compiled by the registry in Register
	Description        string
	Handler            Handler
}

// AllowsEntity reports whether entity is among the tool's allowed entity
// types.
func (d *Descriptor) AllowsEntity(entity EntityType) bool {
	if len(d.AllowedEntities) == 0 {
		return true
	}
	for _, e := range d.AllowedEntities {
		if e == entity {
			return true
		}
	}
	return false
}
