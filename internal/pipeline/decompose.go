package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// runTaskDecomposition executes stage 4. Decomposition is advisory only —
// the execution stage still runs the whole request against the selected
// agent regardless of what subtasks are produced here (spec.md §4.4 stage
// 4, and the Open Question decision recorded in SPEC_FULL.md).
func runTaskDecomposition(rec *Record) {
	start := time.Now()

	if rec.Complexity.Level != ComplexityHigh && rec.Complexity.Level != ComplexityVeryHigh {
		rec.Subtasks = nil
		rec.record(StageTaskDecomposition, true, rec.Subtasks, nil, start)
		return
	}

	parts := splitOnConjunctions(rec.TaskDescription)
	subtasks := make([]Subtask, 0, len(parts))
	for i, part := range parts {
		subtasks = append(subtasks, Subtask{
			TaskID:               fmt.Sprintf("subtask-%d", i+1),
			Description:          strings.TrimSpace(part),
			RequiredCapabilities: []string{string(rec.Validation.EntityType)},
			AgentRole:            rec.Validation.SuggestedAgent,
			EstimatedDuration:    30 * time.Second,
		})
	}
	if len(subtasks) == 0 {
		subtasks = []Subtask{{
			TaskID:               "subtask-1",
			Description:          rec.TaskDescription,
			RequiredCapabilities: []string{string(rec.Validation.EntityType)},
			AgentRole:            rec.Validation.SuggestedAgent,
			EstimatedDuration:    30 * time.Second,
		}}
	}

	rec.Subtasks = subtasks
	rec.record(StageTaskDecomposition, true, subtasks, nil, start)
}

func splitOnConjunctions(text string) []string {
	lower := strings.ToLower(text)
	for _, conj := range conjunctions {
		if strings.Contains(lower, conj) {
			return strings.Split(text, strings.TrimSpace(conj))
		}
	}
	return nil
}
