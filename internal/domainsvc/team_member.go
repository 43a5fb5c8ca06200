package domainsvc

import (
	"context"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/store"
)

// TeamMemberService implements domain.TeamMemberService against a store.Store.
type TeamMemberService struct {
	Store store.Store
}

func (s *TeamMemberService) collection(teamID string) store.Collection {
	return s.Store.Collection(store.TenantCollectionName(teamID, store.TeamMembersSuffix))
}

// GetByTelegramID scans teamID's team-member collection for a match.
func (s *TeamMemberService) GetByTelegramID(ctx context.Context, teamID string, telegramID int64) (*domain.TeamMember, error) {
	docs, err := s.collection(teamID).List(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		var m domain.TeamMember
		if err := fromDoc(doc, &m); err != nil {
			continue
		}
		if m.TelegramID == telegramID {
			return &m, nil
		}
	}
	return nil, kerrors.Lookup("team member not found for telegram id", nil)
}

// Add persists a new team member.
func (s *TeamMemberService) Add(ctx context.Context, m domain.TeamMember) (*domain.TeamMember, error) {
	if m.ID == "" {
		return nil, kerrors.Validation("team member id is required", nil)
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

// Remove deletes a team member record.
func (s *TeamMemberService) Remove(ctx context.Context, teamID, memberID string) error {
	return s.collection(teamID).Delete(ctx, memberID)
}
