package pipeline

import (
	"strings"
	"time"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// commandNameOf returns the first whitespace-delimited token of
// taskDescription, stripped of a leading "/" if present (spec.md §4.4
// stage 2).
func commandNameOf(taskDescription string) string {
	fields := strings.Fields(taskDescription)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(fields[0]), "/")
}

// roleForEntity picks the agent role that is the natural home for an
// entity type, consulting which configured agents' bound tools allow it.
func roleForEntity(agentReg *agents.Registry, entity tools.EntityType) agents.Role {
	for _, role := range agentReg.Roles() {
		if role == agents.RoleMessageProcessor {
			continue
		}
		if a := agentReg.Get(role); a != nil && a.AllowsEntity(entity) {
			return role
		}
	}
	return agents.RoleMessageProcessor
}

// runEntityValidation executes stage 2. Failure here never aborts the
// pipeline — routing may still fall back to message_processor (spec.md
// §4.4 stage 2).
func runEntityValidation(toolReg *tools.Registry, agentReg *agents.Registry, rec *Record, rc *reqcontext.RequestContext) {
	start := time.Now()
	name := commandNameOf(rec.TaskDescription)

	if name == "" {
		v := EntityValidation{IsValid: true, EntityType: tools.EntityNeither, SuggestedAgent: agents.RoleMessageProcessor}
		rec.Validation = v
		rec.record(StageEntityValidation, true, v, nil, start)
		return
	}

	descriptor := toolReg.Resolve(name)
	if descriptor == nil {
		v := EntityValidation{IsValid: true, EntityType: tools.EntityNeither, SuggestedAgent: agents.RoleMessageProcessor}
		rec.Validation = v
		rec.record(StageEntityValidation, true, v, nil, start)
		return
	}

	entity := tools.EntityNeither
	switch {
	case descriptor.AllowsEntity(tools.EntityPlayer) && descriptor.AllowsEntity(tools.EntityTeamMember):
		entity = tools.EntityBoth
	case descriptor.AllowsEntity(tools.EntityPlayer):
		entity = tools.EntityPlayer
	case descriptor.AllowsEntity(tools.EntityTeamMember):
		entity = tools.EntityTeamMember
	}

	role := roleForEntity(agentReg, entity)
	isValid := rc == nil || descriptor.Enabled

	v := EntityValidation{
		IsValid:        isValid,
		EntityType:     entity,
		SuggestedAgent: role,
	}
	if !isValid {
		v.ErrorMessage = "operation is disabled"
	}
	rec.Validation = v
	rec.record(StageEntityValidation, isValid, v, nil, start)
}
