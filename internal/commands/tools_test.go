package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/domainsvc"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/store"
	"github.com/kickai/kickai/internal/tools"
)

func buildTestToolDeps(t *testing.T) Dependencies {
	t.Helper()
	st := store.NewMemoryStore()
	return Dependencies{
		Players:     &domainsvc.PlayerService{Store: st},
		TeamMembers: &domainsvc.TeamMemberService{Store: st},
		Matches:     &domainsvc.MatchService{Store: st},
		Attendance:  &domainsvc.AttendanceService{Store: st},
	}
}

func TestToolProviderRegistersOneToolPerCommand(t *testing.T) {
	deps := buildTestToolDeps(t)
	reg := tools.NewRegistry(nil)
	plugins := tools.NewPluginRegistry()
	plugins.Register(ToolProvider(deps))
	require.NoError(t, reg.Discover(plugins))

	for _, id := range []string{
		"help", "myinfo", "register", "approve", "list", "status",
		"addplayer", "removeplayer", "creatematch", "matches",
		"attendance", "attendancelist", "selectsquad", "broadcast",
		"addmember", "removemember",
	} {
		assert.NotNil(t, reg.Resolve(id), "expected tool %q to be registered", id)
	}
}

func TestToolProviderAccessControlMatchesDefaultConfigRoles(t *testing.T) {
	deps := buildTestToolDeps(t)
	reg := tools.NewRegistry(nil)
	plugins := tools.NewPluginRegistry()
	plugins.Register(ToolProvider(deps))
	require.NoError(t, reg.Discover(plugins))

	d := reg.Resolve("register")
	require.NotNil(t, d)
	assert.True(t, d.AccessControl.Allows("player_coordinator", tools.EntityPlayer))
	assert.False(t, d.AccessControl.Allows("administrator", tools.EntityPlayer))

	d = reg.Resolve("broadcast")
	require.NotNil(t, d)
	assert.True(t, d.AccessControl.Allows("administrator", tools.EntityNeither))
}

func TestWrapAsToolDelegatesToUnderlyingHandler(t *testing.T) {
	deps := buildTestToolDeps(t)
	tool := wrapAsTool(registerHandler(deps))

	rc, err := reqcontext.New(1, "jane", "Jane", "TEAM1", "chat1", reqcontext.ChatMain, "/register JS1 Jane Smith 07123456789", reqcontext.Permissions{}, reqcontext.OriginCommand, time.Now().UTC())
	require.NoError(t, err)

	out, err := tool(context.Background(), rc, map[string]any{inputArgsKey: "JS1 Jane Smith 07123456789"})
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Smith")
}
