// Package store implements the document-store abstraction of SPEC_FULL.md
// §6: one JSON blob per document, keyed by its stringly id, namespaced per
// collection (`kickai_<team_id>_players`, etc., plus the global
// `kickai_teams`). Two implementations satisfy Collection: a
// modernc.org/sqlite-backed one for production, and an in-memory map store
// for tests — grounded on the teacher's storage interface shape
// (internal/storage/interfaces.go) but re-cut around a single Collection
// contract since this core has no auth-scoped multi-tenant storage layer
// to inherit from the teacher directly.
package store

import (
	"context"
	"fmt"
)

// Collection is a namespaced set of JSON documents keyed by id.
type Collection interface {
	Get(ctx context.Context, id string) (doc map[string]any, found bool, err error)
	Put(ctx context.Context, id string, doc map[string]any) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]map[string]any, error)
}

// Store opens named collections on demand.
type Store interface {
	Collection(name string) Collection
	Close() error
}

// Collection names follow spec.md §6 exactly: per-tenant collections are
// prefixed kickai_<team_id>_, plus one global collection for teams.
const (
	PlayersSuffix     = "players"
	TeamMembersSuffix = "team_members"
	MatchesSuffix     = "matches"
	AttendanceSuffix  = "attendance"
	GlobalTeams       = "kickai_teams"
)

// TenantCollectionName builds the per-team collection name.
func TenantCollectionName(teamID, suffix string) string {
	return fmt.Sprintf("kickai_%s_%s", teamID, suffix)
}
