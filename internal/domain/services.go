package domain

import "context"

// PlayerService is the external collaborator for player CRUD and lookup
// (spec.md §6's "domain services"). A store-backed implementation lives in
// internal/domainsvc; router and tools depend only on this interface.
type PlayerService interface {
	Get(ctx context.Context, teamID, playerID string) (*Player, error)
	GetByTelegramID(ctx context.Context, teamID string, telegramID int64) (*Player, error)
	List(ctx context.Context, teamID string) ([]Player, error)
	Register(ctx context.Context, p Player) (*Player, error)
	Approve(ctx context.Context, teamID, playerID string) error
	// Remove deletes a player record outright (distinct from a player
	// declining to re-register — spec.md §6's command surface calls this
	// out separately from approval).
	Remove(ctx context.Context, teamID, playerID string) error
	// LinkTelegramID binds telegramID to the player matched by query (id,
	// phone, or name substring — see internal/domain/validate.FuzzyFindPlayer)
	// within teamID, completing a contact-share registration.
	LinkTelegramID(ctx context.Context, teamID, query string, telegramID int64) (*Player, error)
}

// TeamMemberService is the external collaborator for team-member CRUD and
// lookup.
type TeamMemberService interface {
	GetByTelegramID(ctx context.Context, teamID string, telegramID int64) (*TeamMember, error)
	Add(ctx context.Context, m TeamMember) (*TeamMember, error)
	Remove(ctx context.Context, teamID, memberID string) error
}

// MatchService is the external collaborator for fixture CRUD.
type MatchService interface {
	Create(ctx context.Context, m Match) (*Match, error)
	List(ctx context.Context, teamID string) ([]Match, error)
}

// AttendanceService is the external collaborator for availability and
// squad-selection records.
type AttendanceService interface {
	Record(ctx context.Context, a Attendance) error
	ListForMatch(ctx context.Context, teamID, matchID string) ([]Attendance, error)
}
