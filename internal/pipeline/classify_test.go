package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKeywordClassifierPinsWhatCanIDoScenario pins spec.md §8 end-to-end
// scenario 3: the free-text "what can I do?" must classify as help_request
// with confidence >= 0.7.
func TestKeywordClassifierPinsWhatCanIDoScenario(t *testing.T) {
	intent, err := KeywordClassifier{}.Classify(context.Background(), "what can I do?", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentHelpRequest, intent.Name)
	assert.GreaterOrEqual(t, intent.Confidence, 0.7)
}

func TestKeywordClassifierMatchesWhatCanYouDo(t *testing.T) {
	intent, err := KeywordClassifier{}.Classify(context.Background(), "what can you do?", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentHelpRequest, intent.Name)
}

func TestKeywordClassifierFallsBackToGeneralInquiry(t *testing.T) {
	intent, err := KeywordClassifier{}.Classify(context.Background(), "the weather is nice today", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentGeneralInquiry, intent.Name)
}
