package pipeline

import (
	"fmt"
	"time"
)

// runAggregation executes stage 7: build the final record from the
// execution reply, per-step success/failure counts, and an entity context
// summary. If aggregation itself fails to produce a reply, the raw
// execution reply is used; if that is also missing, a generic apology
// (spec.md §4.4 stage 7, and the "aggregate reply is always a non-empty
// string" invariant of spec.md §8).
func runAggregation(rec *Record) {
	start := time.Now()

	completed, failed := 0, 0
	for _, step := range rec.Steps {
		if step.Success {
			completed++
		} else {
			failed++
		}
	}

	reply := rec.Execution.Reply
	if reply == "" {
		reply = apologyReply
	}

	summary := fmt.Sprintf("entity=%s agent=%s", rec.RouteContext.EntityType, rec.RouteContext.AgentRole)

	agg := Aggregation{
		Reply:          reply,
		CompletedSteps: completed,
		FailedSteps:    failed,
		EntitySummary:  summary,
		Steps:          append([]StepResult(nil), rec.Steps...),
	}
	rec.Aggregation = agg
	rec.record(StageAggregation, true, agg, nil, start)
}
