package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/reqcontext"
)

func stubHandler(result string) Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args string) (string, error) {
		return result, nil
	}
}

func TestInitializeDrainsGlobalRegistrations(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", Handler: stubHandler("ok")})
	reg, err := Initialize(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count())
	assert.NotNil(t, reg.Resolve("list", reqcontext.ChatMain))
}

func TestInitializeRunsModuleLoaders(t *testing.T) {
	resetForTests()
	defer resetForTests()

	loader := func() {
		RegisterGlobal(Descriptor{Name: "help", Handler: stubHandler("help text")})
	}
	reg, err := Initialize(nil, loader)
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "help")
}

func TestResolveFallsBackToWildcardChatType(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "status", Handler: stubHandler("ok")})
	reg, err := Initialize(nil)
	require.NoError(t, err)

	assert.NotNil(t, reg.Resolve("status", reqcontext.ChatMain))
	assert.NotNil(t, reg.Resolve("status", reqcontext.ChatLeadership))
	assert.NotNil(t, reg.Resolve("status", reqcontext.ChatPrivate))
}

func TestResolveHonoursChatTypeRestriction(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{
		Name:             "approve",
		AllowedChatTypes: []ChatType{reqcontext.ChatLeadership},
		Handler:          stubHandler("ok"),
	})
	reg, err := Initialize(nil)
	require.NoError(t, err)

	assert.NotNil(t, reg.Resolve("approve", reqcontext.ChatLeadership))
	assert.Nil(t, reg.Resolve("approve", reqcontext.ChatMain))
}

func TestDuplicateNameAndChatTypeRejected(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", AllowedChatTypes: []ChatType{reqcontext.ChatMain}, Handler: stubHandler("a")})
	RegisterGlobal(Descriptor{Name: "list", AllowedChatTypes: []ChatType{reqcontext.ChatMain}, Handler: stubHandler("b")})

	_, err := Initialize(nil)
	assert.Error(t, err)
}

func TestSameNameDifferentChatTypesAllowed(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", AllowedChatTypes: []ChatType{reqcontext.ChatMain}, Handler: stubHandler("a")})
	RegisterGlobal(Descriptor{Name: "list", AllowedChatTypes: []ChatType{reqcontext.ChatLeadership}, Handler: stubHandler("b")})

	reg, err := Initialize(nil)
	require.NoError(t, err)
	assert.NotNil(t, reg.Resolve("list", reqcontext.ChatMain))
	assert.NotNil(t, reg.Resolve("list", reqcontext.ChatLeadership))
}

func TestAliasCollidesWithCanonicalNameRejected(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", Handler: stubHandler("a")})
	RegisterGlobal(Descriptor{Name: "ls", Aliases: []string{"list"}, Handler: stubHandler("b")})

	_, err := Initialize(nil)
	assert.Error(t, err)
}

func TestAliasResolvesToCanonicalDescriptor(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", Aliases: []string{"ls", "players"}, Handler: stubHandler("a")})
	reg, err := Initialize(nil)
	require.NoError(t, err)

	byAlias := reg.Resolve("ls", reqcontext.ChatMain)
	byCanonical := reg.Resolve("list", reqcontext.ChatMain)
	require.NotNil(t, byAlias)
	require.NotNil(t, byCanonical)
	assert.Equal(t, byCanonical.Name, byAlias.Name)
}

func TestGetInitializedRegistryPanicsBeforeInitialize(t *testing.T) {
	resetForTests()
	defer resetForTests()

	assert.Panics(t, func() {
		GetInitializedRegistry()
	})
}

func TestGetInitializedRegistryReturnsSingletonAfterInitialize(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", Handler: stubHandler("a")})
	_, err := Initialize(nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		reg := GetInitializedRegistry()
		assert.Equal(t, 1, reg.Count())
	})
}

func TestByFeatureFiltersVariants(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "list", Feature: "player_management", Handler: stubHandler("a")})
	RegisterGlobal(Descriptor{Name: "help", Feature: "communication", Handler: stubHandler("b")})
	reg, err := Initialize(nil)
	require.NoError(t, err)

	matched := reg.ByFeature("player_management")
	require.Len(t, matched, 1)
	assert.Equal(t, "list", matched[0].Name)
}

func TestNamesAreSortedAndDeduplicatedAcrossChatTypes(t *testing.T) {
	resetForTests()
	defer resetForTests()

	RegisterGlobal(Descriptor{Name: "zeta", AllowedChatTypes: []ChatType{reqcontext.ChatMain}, Handler: stubHandler("a")})
	RegisterGlobal(Descriptor{Name: "zeta", AllowedChatTypes: []ChatType{reqcontext.ChatLeadership}, Handler: stubHandler("b")})
	RegisterGlobal(Descriptor{Name: "alpha", Handler: stubHandler("c")})
	reg, err := Initialize(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
	assert.Equal(t, 2, reg.Count())
}
