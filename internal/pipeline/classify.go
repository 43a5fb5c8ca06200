package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/kickai/kickai/internal/reqcontext"
)

// Classifier produces an Intent for a task description and context. A
// richer LLM-backed classifier may be plugged in (spec.md §4.4 stage 1);
// KeywordClassifier is the rule-based fallback shipped by default (an Open
// Question decision recorded in SPEC_FULL.md — classifier stays an
// interface, not a single hardcoded algorithm).
type Classifier interface {
	Classify(ctx context.Context, taskDescription string, rc *reqcontext.RequestContext) (Intent, error)
}

// KeywordClassifier maps keywords to the fixed intent set via simple
// substring matching. It never errors — unmatched input yields
// IntentGeneralInquiry, never IntentUnknown, since unknown is reserved for
// genuine classifier failure (spec.md §4.4: "Failure yields intent=unknown,
// confidence=0; the pipeline continues").
type KeywordClassifier struct{}

var keywordIntents = []struct {
	intent     string
	confidence float64
	keywords   []string
}{
	{IntentHelpRequest, 0.9, []string{"help", "how do i", "how to", "what can you do", "what can i do"}},
	{IntentRegistration, 0.9, []string{"register", "sign up", "join the team"}},
	{IntentListRequest, 0.85, []string{"list", "show me", "who are"}},
	{IntentStatusInquiry, 0.8, []string{"status", "am i", "is my"}},
}

// Classify implements Classifier.
func (KeywordClassifier) Classify(_ context.Context, taskDescription string, _ *reqcontext.RequestContext) (Intent, error) {
	lower := strings.ToLower(taskDescription)
	for _, candidate := range keywordIntents {
		for _, kw := range candidate.keywords {
			if strings.Contains(lower, kw) {
				return Intent{Name: candidate.intent, Confidence: candidate.confidence, Entities: map[string]any{}}, nil
			}
		}
	}
	return Intent{Name: IntentGeneralInquiry, Confidence: 0.5, Entities: map[string]any{}}, nil
}

// runClassification executes stage 1. A classifier error never aborts the
// pipeline — it degrades to intent=unknown, confidence=0 per spec.md §4.4.
func runClassification(ctx context.Context, classifier Classifier, rec *Record, rc *reqcontext.RequestContext) {
	start := time.Now()
	intent, err := classifier.Classify(ctx, rec.TaskDescription, rc)
	if err != nil {
		rec.Intent = Intent{Name: IntentUnknown, Confidence: 0, Entities: map[string]any{}}
		rec.record(StageIntentClassification, false, rec.Intent, err, start)
		return
	}
	rec.Intent = intent
	rec.record(StageIntentClassification, true, intent, nil, start)
}
