package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/providers"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

func newToolRegistry(t *testing.T, toolIDs ...string) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry(nil)
	for _, id := range toolIDs {
		require.NoError(t, r.Register(tools.Descriptor{
			ToolID:  id,
			Enabled: true,
			Handler: func(ctx context.Context, rc *reqcontext.RequestContext, args map[string]any) (string, error) {
				return `{"status":"success"}`, nil
			},
		}))
	}
	return r
}

func TestBuildRequiresMessageProcessorRole(t *testing.T) {
	toolReg := newToolRegistry(t)
	_, err := Build(nil, toolReg, &providers.MockClient{}, []Config{
		{Role: RoleHelpAssistant, ToolIDs: nil},
	})
	assert.Error(t, err)
}

func TestBuildFailsFastOnUnknownToolReference(t *testing.T) {
	toolReg := newToolRegistry(t, "list_players")
	_, err := Build(nil, toolReg, &providers.MockClient{}, []Config{
		{Role: RoleMessageProcessor, ToolIDs: nil},
		{Role: RolePlayerCoordinator, ToolIDs: []string{"nonexistent_tool"}},
	})
	assert.Error(t, err)
}

func TestBuildSucceedsAndBindsTools(t *testing.T) {
	toolReg := newToolRegistry(t, "list_players", "register_player")
	reg, err := Build(nil, toolReg, &providers.MockClient{}, []Config{
		{Role: RoleMessageProcessor, ToolIDs: nil},
		{Role: RolePlayerCoordinator, ToolIDs: []string{"list_players", "register_player"}},
	})
	require.NoError(t, err)
	assert.NotNil(t, reg.MessageProcessor())
	assert.NotNil(t, reg.Get(RolePlayerCoordinator))
	assert.Contains(t, reg.Roles(), RoleMessageProcessor)
}

func TestAgentExecuteDelegatesToLLMClient(t *testing.T) {
	toolReg := newToolRegistry(t)
	mock := &providers.MockClient{Responses: []string{"hello from agent"}}
	reg, err := Build(nil, toolReg, mock, []Config{
		{Role: RoleMessageProcessor, Goal: "help", Backstory: "generalist"},
	})
	require.NoError(t, err)

	agent := reg.MessageProcessor()
	rc, err := reqcontext.New(1, "u", "U", "TEAM1", "chat1", reqcontext.ChatMain, "/help", reqcontext.Permissions{}, reqcontext.OriginCommand, time.Now().UTC())
	require.NoError(t, err)

	reply, err := agent.Execute(context.Background(), "help me", rc)
	require.NoError(t, err)
	assert.Equal(t, "hello from agent", reply)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "help me", mock.Calls[0].UserMessage)
}

func TestAllowsEntityDefaultsToTrueWhenNoToolsBound(t *testing.T) {
	toolReg := newToolRegistry(t)
	reg, err := Build(nil, toolReg, &providers.MockClient{}, []Config{
		{Role: RoleMessageProcessor},
	})
	require.NoError(t, err)
	assert.True(t, reg.MessageProcessor().AllowsEntity(tools.EntityPlayer))
}
