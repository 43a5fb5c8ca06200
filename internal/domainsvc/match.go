package domainsvc

import (
	"context"
	"fmt"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/store"
)

// MatchService implements domain.MatchService against a store.Store.
type MatchService struct {
	Store store.Store
}

func (s *MatchService) collection(teamID string) store.Collection {
	return s.Store.Collection(store.TenantCollectionName(teamID, store.MatchesSuffix))
}

// Create persists a new fixture, assigning an id if one was not supplied.
func (s *MatchService) Create(ctx context.Context, m domain.Match) (*domain.Match, error) {
	if m.ID == "" {
		m.ID = fmt.Sprintf("%s-%d", m.TeamID, m.KickoffUnix)
	}
	doc, err := toDoc(m)
	if err != nil {
		return nil, err
	}
	if err := s.collection(m.TeamID).Put(ctx, m.ID, doc); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns every fixture for teamID.
func (s *MatchService) List(ctx context.Context, teamID string) ([]domain.Match, error) {
	docs, err := s.collection(teamID).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Match, 0, len(docs))
	for _, doc := range docs {
		var m domain.Match
		if err := fromDoc(doc, &m); err != nil {
			return nil, kerrors.Corruption("decoding match document", err)
		}
		out = append(out, m)
	}
	return out, nil
}
