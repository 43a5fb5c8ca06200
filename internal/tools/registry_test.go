package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/reqcontext"
)

func stubHandler(result string) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args map[string]any) (string, error) {
		return result, nil
	}
}

func TestRegisterAndResolveByAlias(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{
		ToolID:  "list_players",
		Aliases: []string{"players_list"},
		Enabled: true,
		Handler: stubHandler(`{"status":"success"}`),
	}))

	canonical := r.Resolve("list_players")
	alias := r.Resolve("players_list")
	require.NotNil(t, canonical)
	require.NotNil(t, alias)
	assert.Same(t, canonical, alias)
}

func TestRegisterDuplicateToolIDFails(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{ToolID: "a", Enabled: true, Handler: stubHandler("{}")}))
	err := r.Register(Descriptor{ToolID: "a", Enabled: true, Handler: stubHandler("{}")})
	assert.Error(t, err)
}

func TestRegisterAliasCollidesWithCanonicalFails(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{ToolID: "a", Enabled: true, Handler: stubHandler("{}")}))
	err := r.Register(Descriptor{ToolID: "b", Aliases: []string{"a"}, Enabled: true, Handler: stubHandler("{}")})
	assert.Error(t, err)
}

func TestValidateAccessEmptyMapAllowsEveryRole(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{ToolID: "open_tool", Enabled: true, Handler: stubHandler("{}")}))
	assert.True(t, r.ValidateAccess("open_tool", "any_role", EntityPlayer))
	assert.True(t, r.ValidateAccess("open_tool", "another_role", EntityNeither))
}

func TestValidateAccessRespectsMapping(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{
		ToolID:  "approve_player",
		Enabled: true,
		AccessControl: AccessControl{
			"team_manager": {EntityPlayer},
		},
		Handler: stubHandler("{}"),
	}))
	assert.True(t, r.ValidateAccess("approve_player", "team_manager", EntityPlayer))
	assert.False(t, r.ValidateAccess("approve_player", "team_manager", EntityTeamMember))
	assert.False(t, r.ValidateAccess("approve_player", "message_processor", EntityPlayer))
}

func TestValidateAccessDisabledToolNeverAllowed(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{ToolID: "disabled_tool", Enabled: false, Handler: stubHandler("{}")}))
	assert.False(t, r.ValidateAccess("disabled_tool", "any_role", EntityPlayer))
}

func TestDiscoverIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	provider := ProviderFunc(func() []Descriptor {
		calls++
		return []Descriptor{{ToolID: "discovered", Enabled: true, Handler: stubHandler("{}")}}
	})

	require.NoError(t, r.Discover(nil, provider))
	require.NoError(t, r.Discover(nil, provider))

	assert.Equal(t, 1, calls)
	assert.NotNil(t, r.Resolve("discovered"))
}

func TestHeuristicClassificationFillsGaps(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{ToolID: "register_player", Enabled: true, Handler: stubHandler("{}")}))
	d := r.Resolve("register_player")
	assert.Equal(t, TypePlayerMgmt, d.Type)
	assert.True(t, d.AccessControl.Allows("administrator", EntityPlayer))
}

func TestExplicitMetadataOverridesHeuristics(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Descriptor{
		ToolID:        "register_player",
		Enabled:       true,
		Type:          TypeCommunication,
		AccessControl: AccessControl{"help_assistant": {EntityNeither}},
		Handler:       stubHandler("{}"),
	}))
	d := r.Resolve("register_player")
	assert.Equal(t, TypeCommunication, d.Type)
	assert.True(t, d.AccessControl.Allows("help_assistant", EntityNeither))
}

func TestInvokeUnknownToolReturnsErrorEnvelope(t *testing.T) {
	r := NewRegistry(nil)
	result, err := r.Invoke(context.Background(), "missing", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, result, `"status":"error"`)
}

func TestInvokeWithSchemaRejectsInvalidContext(t *testing.T) {
	r := NewRegistry(nil)
	schema := []byte(`{"type":"object","required":["team_id"],"properties":{"team_id":{"type":"string"}}}`)
	require.NoError(t, r.Register(Descriptor{
		ToolID:        "schema_tool",
		Enabled:       true,
		ContextSchema: schema,
		Handler:       stubHandler(`{"status":"success"}`),
	}))

	rc := &reqcontext.RequestContext{TeamID: ""}
	result, err := r.Invoke(context.Background(), "schema_tool", rc, map[string]any{"context": map[string]any{}})
	require.NoError(t, err)
	assert.Contains(t, result, `"status":"error"`)
}

func TestInvokeWithSchemaAcceptsValidContext(t *testing.T) {
	r := NewRegistry(nil)
	schema := []byte(`{"type":"object","required":["team_id"],"properties":{"team_id":{"type":"string"}}}`)
	require.NoError(t, r.Register(Descriptor{
		ToolID:        "schema_tool",
		Enabled:       true,
		ContextSchema: schema,
		Handler:       stubHandler(`{"status":"success"}`),
	}))

	result, err := r.Invoke(context.Background(), "schema_tool", nil, map[string]any{
		"context": map[string]any{"team_id": "TEAM1"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"status":"success"}`, result)
}
