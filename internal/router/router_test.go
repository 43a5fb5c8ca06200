package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/commands"
	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/domainsvc"
	"github.com/kickai/kickai/internal/pipeline"
	"github.com/kickai/kickai/internal/providers"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/store"
	"github.com/kickai/kickai/internal/tools"
)

// buildTestRouter wires a full stack end to end: in-memory store, store-backed
// domain services, an empty tool registry, a message-processor-only agent
// registry backed by a mock LLM, and the builtin command module, matching
// spec.md §8's end-to-end scenarios.
func buildTestRouter(t *testing.T) *Router {
	t.Helper()

	st := store.NewMemoryStore()
	players := &domainsvc.PlayerService{Store: st}
	teamMembers := &domainsvc.TeamMemberService{Store: st}
	matches := &domainsvc.MatchService{Store: st}
	attendance := &domainsvc.AttendanceService{Store: st}

	toolReg := tools.NewRegistry(nil)
	agentReg, err := agents.Build(nil, toolReg, &providers.MockClient{Responses: []string{"I can help with that."}}, []agents.Config{
		{Role: agents.RoleMessageProcessor, Goal: "help", Backstory: "generalist"},
	})
	require.NoError(t, err)

	commandReg, err := commands.Initialize(nil, commands.BuiltinModule(commands.Dependencies{
		Players:     players,
		TeamMembers: teamMembers,
		Matches:     matches,
		Attendance:  attendance,
	}))
	require.NoError(t, err)

	// Seed an admin team member directly, the way a real deployment bootstraps
	// its first administrator (outside the bot, since every admin-only
	// command requires one to already exist).
	_, err = teamMembers.Add(context.Background(), domain.TeamMember{
		ID: "TM0", TeamID: "TEAM1", TelegramID: 999, Name: "Root Admin", IsAdmin: true,
	})
	require.NoError(t, err)

	pipe := pipeline.New(toolReg, agentReg, commandReg)
	return New(commandReg, pipe, players, teamMembers, NewInviteSigner("test-secret", time.Hour), nil)
}

func TestEndToEndScenarios(t *testing.T) {
	r := buildTestRouter(t)
	ctx := context.Background()

	t.Run("register then list", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 1, Username: "jane", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/register JS1 Jane Smith 07123456789",
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Jane Smith")
		assert.True(t, resp.NeedsContactButton)

		// /list needs a registered caller; the seeded admin (telegram 999) is one
		listResp, err := r.Handle(ctx, Update{
			TelegramID: 999, Username: "root", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/list",
		})
		require.NoError(t, err)
		assert.Contains(t, listResp.Text, "Jane Smith")
	})

	t.Run("free text falls through to the pipeline", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 3, Username: "curious", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "can you help me understand how training works?",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Text)
	})

	t.Run("approve denied without leadership", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 2, Username: "other", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/approve JS1",
		})
		require.NoError(t, err)
		assert.Contains(t, strings.ToLower(resp.Text), "permission")
	})

	t.Run("contact share links telegram id", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 42, Username: "jane", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, ContactPhone: "07123456789", ContactTelegramID: 42,
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Registration complete")
	})

	t.Run("myinfo when unregistered asks for contact", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 99, Username: "ghost", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/myinfo",
		})
		require.NoError(t, err)
		assert.True(t, resp.NeedsContactButton)
	})

	t.Run("unrecognized command", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 5, Username: "x", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/nonexistent",
		})
		require.NoError(t, err)
		assert.Equal(t, unrecognizedCommandReply, resp.Text)
	})
}

func TestStartWithInviteToken(t *testing.T) {
	r := buildTestRouter(t)
	ctx := context.Background()

	_, err := r.Handle(ctx, Update{
		TelegramID: 1, Username: "jane", TeamID: "TEAM1", ChatID: "chat1",
		ChatType: reqcontext.ChatMain, Text: "/register JS1 Jane Smith 07123456789",
	})
	require.NoError(t, err)

	token, err := r.Invites.Sign("TEAM1", "JS1")
	require.NoError(t, err)

	t.Run("valid token prompts for contact", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 77, Username: "jane", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/start", InviteToken: token,
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Jane Smith")
		assert.True(t, resp.NeedsContactButton)
	})

	t.Run("invalid token is rejected before dispatch", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 78, Username: "x", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/start", InviteToken: "garbage",
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "invalid or has expired")
	})

	t.Run("bare start has no invite metadata", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 79, Username: "y", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, Text: "/start",
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Welcome to KICKAI")
	})

	t.Run("contact share with invite token links by player id", func(t *testing.T) {
		resp, err := r.Handle(ctx, Update{
			TelegramID: 80, Username: "jane", TeamID: "TEAM1", ChatID: "chat1",
			ChatType: reqcontext.ChatMain, ContactPhone: "07999999999", ContactTelegramID: 80,
			InviteToken: token,
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Registration complete")
	})
}

func TestBroadcastPropagatesOnResponse(t *testing.T) {
	r := buildTestRouter(t)
	ctx := context.Background()

	resp, err := r.Handle(ctx, Update{
		TelegramID: 999, Username: "root", TeamID: "TEAM1", ChatID: "chat1",
		ChatType: reqcontext.ChatLeadership, Text: "/broadcast Training moved to 7pm",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, resp.BroadcastTargets)
	assert.Equal(t, "Training moved to 7pm", resp.BroadcastText)
}

func TestPermissionSatisfied(t *testing.T) {
	cases := []struct {
		required tools.Permission
		perms    reqcontext.Permissions
		want     bool
	}{
		{tools.PermissionPublic, reqcontext.Permissions{}, true},
		{tools.PermissionPlayer, reqcontext.Permissions{}, false},
		{tools.PermissionPlayer, reqcontext.Permissions{IsPlayer: true}, true},
		{tools.PermissionLeadership, reqcontext.Permissions{IsPlayer: true, IsLeadership: true}, true},
		{tools.PermissionLeadership, reqcontext.Permissions{IsPlayer: true}, false},
		{tools.PermissionAdmin, reqcontext.Permissions{IsTeamMember: true, IsAdmin: true}, true},
		{tools.PermissionSystem, reqcontext.Permissions{IsAdmin: true}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, permissionSatisfied(c.required, c.perms))
	}
}
