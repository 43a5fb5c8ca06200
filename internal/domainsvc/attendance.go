package domainsvc

import (
	"context"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/store"
)

// AttendanceService implements domain.AttendanceService against a
// store.Store, using the composite id domain.AttendanceID builds so every
// record is a direct lookup (spec.md §6).
type AttendanceService struct {
	Store store.Store
}

func (s *AttendanceService) collection(teamID string) store.Collection {
	return s.Store.Collection(store.TenantCollectionName(teamID, store.AttendanceSuffix))
}

// Record upserts one player's attendance/availability for a match.
func (s *AttendanceService) Record(ctx context.Context, a domain.Attendance) error {
	a.ID = domain.AttendanceID(a.TeamID, a.MatchID, a.PlayerID)
	doc, err := toDoc(a)
	if err != nil {
		return err
	}
	return s.collection(a.TeamID).Put(ctx, a.ID, doc)
}

// ListForMatch returns every attendance record for one match.
func (s *AttendanceService) ListForMatch(ctx context.Context, teamID, matchID string) ([]domain.Attendance, error) {
	docs, err := s.collection(teamID).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attendance, 0, len(docs))
	for _, doc := range docs {
		var a domain.Attendance
		if err := fromDoc(doc, &a); err != nil {
			return nil, kerrors.Corruption("decoding attendance document", err)
		}
		if a.MatchID == matchID {
			out = append(out, a)
		}
	}
	return out, nil
}
