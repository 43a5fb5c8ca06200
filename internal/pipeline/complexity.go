package pipeline

import (
	"strings"
	"time"
)

// conjunctions hints at multi-step requests (spec.md §4.4 stage 3).
var conjunctions = []string{" and then ", " after that ", " also ", " and ", ";"}

// runComplexityAssessment executes stage 3: a heuristic score blending
// request length, entity count, intent category, and conjunction presence
// into a coarse level (spec.md §4.4).
func runComplexityAssessment(rec *Record) {
	start := time.Now()

	lower := strings.ToLower(rec.TaskDescription)
	wordCount := len(strings.Fields(rec.TaskDescription))
	entityCount := len(rec.Intent.Entities)

	score := 0.0
	var reasons []string

	switch {
	case wordCount > 40:
		score += 0.4
		reasons = append(reasons, "long request")
	case wordCount > 15:
		score += 0.2
		reasons = append(reasons, "medium-length request")
	}

	if entityCount > 2 {
		score += 0.3
		reasons = append(reasons, "multiple entities referenced")
	} else if entityCount > 0 {
		score += 0.1
	}

	if rec.Intent.Name == IntentGeneralInquiry || rec.Intent.Name == IntentUnknown {
		score += 0.1
		reasons = append(reasons, "unclear intent")
	}

	for _, conj := range conjunctions {
		if strings.Contains(lower, conj) {
			score += 0.3
			reasons = append(reasons, "conjunction implies multi-step work")
			break
		}
	}

	if score > 1 {
		score = 1
	}

	level := ComplexityLow
	switch {
	case score >= 0.75:
		level = ComplexityVeryHigh
	case score >= 0.5:
		level = ComplexityHigh
	case score >= 0.25:
		level = ComplexityMedium
	}

	reasoning := "no notable complexity signals"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	c := Complexity{Level: level, Score: score, Reasoning: reasoning}
	rec.Complexity = c
	rec.record(StageComplexityAssessment, true, c, nil, start)
}
