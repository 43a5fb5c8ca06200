package pipeline

import (
	"time"

	"github.com/kickai/kickai/internal/agents"
)

// runRouting executes stage 5: pick the agent role to execute the request,
// falling back to message_processor when no suitable role was suggested by
// entity validation (spec.md §4.4 stage 5).
func runRouting(rec *Record, agentReg *agents.Registry) {
	start := time.Now()

	role := rec.Validation.SuggestedAgent
	if role == "" || agentReg.Get(role) == nil {
		role = agents.RoleMessageProcessor
	}

	toolID := ""
	if name := commandNameOf(rec.TaskDescription); name != "" {
		toolID = name
	}

	rec.RouteContext = EntityOperationContext{
		Description: rec.TaskDescription,
		AgentRole:   role,
		ToolID:      toolID,
		Parameters:  map[string]any{},
		EntityType:  rec.Validation.EntityType,
		Validation:  rec.Validation,
	}
	rec.record(StageRouting, true, rec.RouteContext, nil, start)
}
