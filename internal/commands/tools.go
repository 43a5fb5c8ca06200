package commands

import (
	"context"

	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// inputArgsKey is the tools.Handler args map key a wrapped command expects
// its raw argument string under, mirroring the single positional-args
// string every commands.Handler already takes.
const inputArgsKey = "input"

// wrapAsTool adapts a commands.Handler into a tools.Handler so an agent can
// invoke the exact same logic a chat command dispatches to, rather than
// duplicating it (spec.md §4.1's tool call surface, SPEC_FULL.md §4's
// multi-role agent routing).
func wrapAsTool(h Handler) tools.Handler {
	return func(ctx context.Context, rc *reqcontext.RequestContext, args map[string]any) (string, error) {
		input, _ := args[inputArgsKey].(string)
		return h(ctx, rc, input)
	}
}

// ToolProvider exposes every builtin command except start and
// complete_registration as a tool an agent may invoke, so the multi-role
// routing of SPEC_FULL.md §4 (stage 5's
// entity-aware agent selection) has real tools to dispatch through instead
// of configuring roles against tool IDs nothing ever registers. Each tool
// ID matches its command name exactly, since internal/pipeline's
// entity-validation stage resolves a task's command name directly against
// the tool registry.
func ToolProvider(deps Dependencies) tools.Provider {
	return tools.ProviderFunc(func() []tools.Descriptor {
		return []tools.Descriptor{
			{
				ToolID:             "help",
				Type:               tools.TypeHelp,
				Category:           tools.CategoryCore,
				FeatureModule:      "communication",
				Enabled:            true,
				RequiredPermission: tools.PermissionPublic,
				AllowedEntities:    []tools.EntityType{tools.EntityNeither},
				AccessControl: tools.AccessControl{
					"help_assistant": {tools.EntityNeither},
				},
				Description: "List available commands",
				Handler:     wrapAsTool(helpHandler),
			},
			{
				ToolID:             "myinfo",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPublic,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Show your registration status",
				Handler:     wrapAsTool(myInfoHandler(deps)),
			},
			{
				ToolID:             "register",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPublic,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Register as a player",
				Handler:     wrapAsTool(registerHandler(deps)),
			},
			{
				ToolID:             "approve",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Approve a pending player",
				Handler:     wrapAsTool(approveHandler(deps)),
			},
			{
				ToolID:             "list",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPlayer,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "List registered players",
				Handler:     wrapAsTool(listHandler(deps)),
			},
			{
				ToolID:             "status",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPublic,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Check a player's approval status",
				Handler:     wrapAsTool(statusHandler(deps)),
			},
			{
				ToolID:             "addplayer",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Add and approve a player directly",
				Handler:     wrapAsTool(addPlayerHandler(deps)),
			},
			{
				ToolID:             "removeplayer",
				Type:               tools.TypePlayerMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "player_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityPlayer},
				AccessControl: tools.AccessControl{
					"player_coordinator": {tools.EntityPlayer},
				},
				Description: "Remove a player record",
				Handler:     wrapAsTool(removePlayerHandler(deps)),
			},
			{
				ToolID:             "creatematch",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "match_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityBoth},
				AccessControl: tools.AccessControl{
					"team_manager": {tools.EntityBoth},
				},
				Description: "Schedule a fixture",
				Handler:     wrapAsTool(createMatchHandler(deps)),
			},
			{
				ToolID:             "matches",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "match_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPlayer,
				AllowedEntities:    []tools.EntityType{tools.EntityBoth},
				AccessControl: tools.AccessControl{
					"team_manager": {tools.EntityBoth},
				},
				Description: "List scheduled fixtures",
				Handler:     wrapAsTool(listMatchesHandler(deps)),
			},
			{
				ToolID:             "attendance",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "match_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionPlayer,
				AllowedEntities:    []tools.EntityType{tools.EntityBoth},
				AccessControl: tools.AccessControl{
					"team_manager": {tools.EntityBoth},
				},
				Description: "Record your availability for a fixture",
				Handler:     wrapAsTool(attendanceHandler(deps)),
			},
			{
				ToolID:             "attendancelist",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "match_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityBoth},
				AccessControl: tools.AccessControl{
					"team_manager": {tools.EntityBoth},
				},
				Description: "List recorded attendance for a fixture",
				Handler:     wrapAsTool(attendanceListHandler(deps)),
			},
			{
				ToolID:             "selectsquad",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "match_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityBoth},
				AccessControl: tools.AccessControl{
					"team_manager": {tools.EntityBoth},
				},
				Description: "Mark players selected for a fixture",
				Handler:     wrapAsTool(selectSquadHandler(deps)),
			},
			{
				ToolID:             "broadcast",
				Type:               tools.TypeCommunication,
				Category:           tools.CategoryFeature,
				FeatureModule:      "communication",
				Enabled:            true,
				RequiredPermission: tools.PermissionLeadership,
				AllowedEntities:    []tools.EntityType{tools.EntityNeither},
				AccessControl: tools.AccessControl{
					"administrator": {tools.EntityNeither},
				},
				Description: "Send an announcement to the main chat",
				Handler:     wrapAsTool(broadcastHandler(deps)),
			},
			{
				ToolID:             "addmember",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "team_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionAdmin,
				AllowedEntities:    []tools.EntityType{tools.EntityTeamMember},
				AccessControl: tools.AccessControl{
					"administrator": {tools.EntityTeamMember},
				},
				Description: "Add a team member",
				Handler:     wrapAsTool(addMemberHandler(deps)),
			},
			{
				ToolID:             "removemember",
				Type:               tools.TypeTeamMgmt,
				Category:           tools.CategoryFeature,
				FeatureModule:      "team_management",
				Enabled:            true,
				RequiredPermission: tools.PermissionAdmin,
				AllowedEntities:    []tools.EntityType{tools.EntityTeamMember},
				AccessControl: tools.AccessControl{
					"administrator": {tools.EntityTeamMember},
				},
				Description: "Remove a team member",
				Handler:     wrapAsTool(removeMemberHandler(deps)),
			},
		}
	})
}
