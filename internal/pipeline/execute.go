package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/commands"
	"github.com/kickai/kickai/internal/reqcontext"
)

const apologyReply = "Sorry, I couldn't complete that request. Please try again or contact your team admin."

// runExecution executes stage 6. If the task description names a registered
// command with a handler reference, that handler runs directly — this is
// the deterministic fast path commands take instead of an LLM round-trip
// (spec.md §3's "Command descriptor" carries a handler reference precisely
// for this). Everything else re-checks the chosen agent's entity-type
// permission before dispatching, falling back to message_processor if the
// chosen agent is not permitted; any panic/error from either path is
// converted to a user-safe apology rather than allowed to escape the
// pipeline (spec.md §4.4 stage 6).
func runExecution(ctx context.Context, rec *Record, agentReg *agents.Registry, commandReg *commands.Registry, rc *reqcontext.RequestContext) {
	start := time.Now()

	if commandReg != nil && rc != nil {
		if reply, handled, err := runCommandHandler(ctx, commandReg, rec.TaskDescription, rc); handled {
			if err != nil {
				result := ExecutionResult{Reply: apologyReply, AgentRole: agents.RoleMessageProcessor, ErrorCaught: err.Error()}
				rec.Execution = result
				rec.record(StageExecution, false, result, err, start)
				return
			}
			result := ExecutionResult{Reply: reply, AgentRole: agents.RoleMessageProcessor}
			rec.Execution = result
			rec.record(StageExecution, true, result, nil, start)
			return
		}
	}

	role := rec.RouteContext.AgentRole
	agent := agentReg.Get(role)
	fellBack := false

	if agent == nil || !agent.AllowsEntity(rec.RouteContext.EntityType) {
		agent = agentReg.MessageProcessor()
		role = agents.RoleMessageProcessor
		fellBack = true
	}

	if agent == nil {
		result := ExecutionResult{Reply: apologyReply, AgentRole: role, FellBack: true, ErrorCaught: "no agent available"}
		rec.Execution = result
		rec.record(StageExecution, false, result, nil, start)
		return
	}

	reply, err := safeExecute(ctx, agent, rec.TaskDescription, rc)
	if err != nil {
		result := ExecutionResult{Reply: apologyReply, AgentRole: role, FellBack: fellBack, ErrorCaught: err.Error()}
		rec.Execution = result
		rec.record(StageExecution, false, result, err, start)
		return
	}

	result := ExecutionResult{Reply: reply, AgentRole: role, FellBack: fellBack}
	rec.Execution = result
	rec.record(StageExecution, true, result, nil, start)
}

// safeExecute recovers from any panic an agent's execution might raise,
// converting it into an error so stage 6's invariant ("never causes an
// unhandled exception to escape the pipeline", spec.md §4.4) holds even
// against misbehaving agent/tool code.
func safeExecute(ctx context.Context, agent *agents.Agent, taskDescription string, rc *reqcontext.RequestContext) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{recovered: r}
		}
	}()
	return agent.Execute(ctx, taskDescription, rc)
}

type panicError struct {
	recovered any
}

func (p panicError) Error() string {
	return "agent execution panicked"
}

// runCommandHandler resolves taskDescription's leading token against the
// command registry for the caller's chat type. handled is false whenever
// the text isn't a recognized command (no leading "/") or nothing is
// registered for it, signaling the caller to fall through to agent
// execution instead.
func runCommandHandler(ctx context.Context, commandReg *commands.Registry, taskDescription string, rc *reqcontext.RequestContext) (reply string, handled bool, err error) {
	fields := strings.Fields(taskDescription)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false, nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	descriptor := commandReg.Resolve(name, rc.ChatType)
	if descriptor == nil || descriptor.Handler == nil {
		return "", false, nil
	}

	args := strings.TrimSpace(strings.TrimPrefix(taskDescription, fields[0]))
	reply, err = safeCommandExecute(ctx, descriptor.Handler, rc, args)
	return reply, true, err
}

// safeCommandExecute mirrors safeExecute's panic-to-error conversion for the
// command handler fast path.
func safeCommandExecute(ctx context.Context, handler commands.Handler, rc *reqcontext.RequestContext, args string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{recovered: r}
		}
	}()
	return handler(ctx, rc, args)
}
