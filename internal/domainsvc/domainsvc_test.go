package domainsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/store"
)

func TestPlayerRegisterThenGetByTelegramID(t *testing.T) {
	svc := &PlayerService{Store: store.NewMemoryStore()}
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.Player{ID: "JS1", TeamID: "TEAM1", TelegramID: 42, Name: "Jane Smith", Phone: "07123456789"})
	require.NoError(t, err)

	found, err := svc.GetByTelegramID(ctx, "TEAM1", 42)
	require.NoError(t, err)
	assert.Equal(t, "JS1", found.ID)
	assert.False(t, found.Approved)
	assert.Equal(t, "+447123456789", found.Phone)
}

func TestPlayerRegisterRejectsInvalidID(t *testing.T) {
	svc := &PlayerService{Store: store.NewMemoryStore()}
	_, err := svc.Register(context.Background(), domain.Player{ID: "1", TeamID: "TEAM1", Phone: "07123456789"})
	assert.Error(t, err)
}

func TestPlayerApproveFlipsFlag(t *testing.T) {
	svc := &PlayerService{Store: store.NewMemoryStore()}
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.Player{ID: "JS1", TeamID: "TEAM1", Phone: "07123456789"})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, "TEAM1", "JS1"))

	p, err := svc.Get(ctx, "TEAM1", "JS1")
	require.NoError(t, err)
	assert.True(t, p.Approved)
}

func TestPlayerLinkTelegramIDMatchesByPhone(t *testing.T) {
	svc := &PlayerService{Store: store.NewMemoryStore()}
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.Player{ID: "JS1", TeamID: "TEAM1", Name: "Jane Smith", Phone: "07123456789"})
	require.NoError(t, err)

	linked, err := svc.LinkTelegramID(ctx, "TEAM1", "07123456789", 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), linked.TelegramID)

	found, err := svc.GetByTelegramID(ctx, "TEAM1", 99)
	require.NoError(t, err)
	assert.Equal(t, "JS1", found.ID)
}

func TestPlayerLinkTelegramIDReturnsErrorWhenNoMatch(t *testing.T) {
	svc := &PlayerService{Store: store.NewMemoryStore()}
	_, err := svc.LinkTelegramID(context.Background(), "TEAM1", "nobody", 1)
	assert.Error(t, err)
}

func TestAttendanceRecordUsesCompositeID(t *testing.T) {
	svc := &AttendanceService{Store: store.NewMemoryStore()}
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, domain.Attendance{TeamID: "TEAM1", MatchID: "M1", PlayerID: "JS1", Availability: domain.AvailabilityAvailable}))

	records, err := svc.ListForMatch(ctx, "TEAM1", "M1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "TEAM1_M1_JS1", records[0].ID)
}

func TestMatchCreateAssignsIDWhenMissing(t *testing.T) {
	svc := &MatchService{Store: store.NewMemoryStore()}
	m, err := svc.Create(context.Background(), domain.Match{TeamID: "TEAM1", Opponent: "Rivals", KickoffUnix: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
}

func TestTeamMemberAddAndGetByTelegramID(t *testing.T) {
	svc := &TeamMemberService{Store: store.NewMemoryStore()}
	ctx := context.Background()
	_, err := svc.Add(ctx, domain.TeamMember{ID: "TM1", TeamID: "TEAM1", TelegramID: 7, Name: "Coach", IsAdmin: true})
	require.NoError(t, err)

	found, err := svc.GetByTelegramID(ctx, "TEAM1", 7)
	require.NoError(t, err)
	assert.True(t, found.IsAdmin)
}
