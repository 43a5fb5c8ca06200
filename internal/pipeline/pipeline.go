package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/commands"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/telemetry"
	"github.com/kickai/kickai/internal/tools"
)

// Pipeline runs the seven fixed stages in order against the configured tool
// and agent registries.
//
// The router hands every request to the pipeline with the command name (if
// any) as the task description (spec.md §4.5 responsibility 4); Commands is
// how stage 6 recognizes that shape and, when the initialized command
// registry carries a handler reference for it (spec.md §3, "Command
// descriptor"), calls that handler directly instead of routing the request
// through an LLM agent. Natural-language tasks that don't resolve to a
// command always fall through to agent execution. Commands may be nil, in
// which case every task is treated as natural language.
type Pipeline struct {
	Classifier    Classifier
	ToolRegistry  *tools.Registry
	AgentRegistry *agents.Registry
	Commands      *commands.Registry
}

// New constructs a Pipeline with the keyword classifier as the default
// (spec.md §4.4 stage 1, Open Question decision: classifier stays
// replaceable).
func New(toolRegistry *tools.Registry, agentRegistry *agents.Registry, commandRegistry *commands.Registry) *Pipeline {
	return &Pipeline{
		Classifier:    KeywordClassifier{},
		ToolRegistry:  toolRegistry,
		AgentRegistry: agentRegistry,
		Commands:      commandRegistry,
	}
}

// Run executes all seven stages for one request and returns the completed
// Record. Run never returns an error — every stage degrades gracefully per
// spec.md §4.4's invariants, and the caller reads rec.Aggregation.Reply.
func (p *Pipeline) Run(ctx context.Context, taskDescription string, rc *reqcontext.RequestContext) *Record {
	rec := &Record{ID: uuid.NewString(), TaskDescription: taskDescription}

	ctx, rootSpan := telemetry.Tracer().Start(ctx, "pipeline.run")
	defer rootSpan.End()

	stage(ctx, StageIntentClassification, func(ctx context.Context) { runClassification(ctx, p.Classifier, rec, rc) })
	stage(ctx, StageEntityValidation, func(context.Context) { runEntityValidation(p.ToolRegistry, p.AgentRegistry, rec, rc) })
	stage(ctx, StageComplexityAssessment, func(context.Context) { runComplexityAssessment(rec) })
	stage(ctx, StageTaskDecomposition, func(context.Context) { runTaskDecomposition(rec) })
	stage(ctx, StageRouting, func(context.Context) { runRouting(rec, p.AgentRegistry) })
	stage(ctx, StageExecution, func(ctx context.Context) { runExecution(ctx, rec, p.AgentRegistry, p.Commands, rc) })
	stage(ctx, StageAggregation, func(context.Context) { runAggregation(rec) })

	return rec
}

// stage wraps fn in a span named after the pipeline stage it runs.
func stage(ctx context.Context, name StageName, fn func(context.Context)) {
	ctx, span := telemetry.StartStage(ctx, string(name))
	defer span.End()
	fn(ctx)
}
