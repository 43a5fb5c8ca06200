// Package domainsvc implements the domain.PlayerService,
// domain.TeamMemberService, domain.MatchService, and
// domain.AttendanceService interfaces against the store.Store document
// abstraction (SPEC_FULL.md §6), keeping every persisted record inside the
// per-team collections named in spec.md §6: kickai_<team_id>_players,
// ..._team_members, ..._matches, ..._attendance.
package domainsvc

import (
	"context"
	"encoding/json"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/domain/validate"
	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/store"
)

// PlayerService implements domain.PlayerService against a store.Store.
type PlayerService struct {
	Store store.Store
}

func (s *PlayerService) collection(teamID string) store.Collection {
	return s.Store.Collection(store.TenantCollectionName(teamID, store.PlayersSuffix))
}

// Get looks up a player by id within teamID.
func (s *PlayerService) Get(ctx context.Context, teamID, playerID string) (*domain.Player, error) {
	doc, found, err := s.collection(teamID).Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, kerrors.Lookup("player not found: "+playerID, nil)
	}
	return decodePlayer(doc)
}

// GetByTelegramID scans the collection for a player whose Telegram id
// matches. Document stores in this core have no secondary index, so this
// is a linear scan — acceptable at team-roster scale (tens to low
// hundreds of players).
func (s *PlayerService) GetByTelegramID(ctx context.Context, teamID string, telegramID int64) (*domain.Player, error) {
	docs, err := s.collection(teamID).List(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		p, err := decodePlayer(doc)
		if err != nil {
			continue
		}
		if p.TelegramID == telegramID {
			return p, nil
		}
	}
	return nil, kerrors.Lookup("player not found for telegram id", nil)
}

// List returns every player registered for teamID.
func (s *PlayerService) List(ctx context.Context, teamID string) ([]domain.Player, error) {
	docs, err := s.collection(teamID).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Player, 0, len(docs))
	for _, doc := range docs {
		p, err := decodePlayer(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Register validates and persists a new, unapproved player.
func (s *PlayerService) Register(ctx context.Context, p domain.Player) (*domain.Player, error) {
	if !validate.IsValidPlayerID(p.ID) {
		return nil, kerrors.Validation("player id does not match the expected pattern", nil)
	}
	normalizedPhone, err := validate.NormalizePhone(p.Phone)
	if err != nil {
		return nil, err
	}
	p.Phone = normalizedPhone
	p.Approved = false

	doc, err := encodePlayer(p)
	if err != nil {
		return nil, err
	}
	if err := s.collection(p.TeamID).Put(ctx, p.ID, doc); err != nil {
		return nil, err
	}
	return &p, nil
}

// Approve marks a previously-registered player as approved.
func (s *PlayerService) Approve(ctx context.Context, teamID, playerID string) error {
	p, err := s.Get(ctx, teamID, playerID)
	if err != nil {
		return err
	}
	p.Approved = true
	doc, err := encodePlayer(*p)
	if err != nil {
		return err
	}
	return s.collection(teamID).Put(ctx, playerID, doc)
}

// Remove deletes a player record outright.
func (s *PlayerService) Remove(ctx context.Context, teamID, playerID string) error {
	return s.collection(teamID).Delete(ctx, playerID)
}

// LinkTelegramID finds the player matching query (by id, normalized phone,
// or name substring) and binds telegramID to it, completing the
// registration a contact share finishes (SPEC_FULL.md §9 item 2).
func (s *PlayerService) LinkTelegramID(ctx context.Context, teamID, query string, telegramID int64) (*domain.Player, error) {
	players, err := s.List(ctx, teamID)
	if err != nil {
		return nil, err
	}
	match := validate.FuzzyFindPlayer(players, query)
	if match == nil {
		return nil, kerrors.Lookup("no pending player matches "+query, nil)
	}

	match.TelegramID = telegramID
	doc, err := encodePlayer(*match)
	if err != nil {
		return nil, err
	}
	if err := s.collection(teamID).Put(ctx, match.ID, doc); err != nil {
		return nil, err
	}
	return match, nil
}

func encodePlayer(p domain.Player) (map[string]any, error) {
	return toDoc(p)
}

func decodePlayer(doc map[string]any) (*domain.Player, error) {
	var p domain.Player
	if err := fromDoc(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// toDoc/fromDoc round-trip a typed struct through the document store's
// map[string]any shape via its JSON tags — the same approach the store
// layer already uses for persistence, kept in one place so every service
// in this package shares it.
func toDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, kerrors.Validation("encoding document", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, kerrors.Validation("encoding document", err)
	}
	return doc, nil
}

func fromDoc(doc map[string]any, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return kerrors.Corruption("decoding document", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return kerrors.Corruption("decoding document", err)
	}
	return nil
}
