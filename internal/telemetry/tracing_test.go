package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviderInstallsGlobalTracer(t *testing.T) {
	provider := NewProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	require.NotNil(t, provider)
	require.IsType(t, &sdktrace.TracerProvider{}, provider)
}

func TestStartStageProducesARecordingSpan(t *testing.T) {
	provider := NewProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	_, span := StartStage(context.Background(), "intent_classification")
	defer span.End()

	assert.True(t, span.IsRecording())
}

func TestStartToolCallProducesARecordingSpan(t *testing.T) {
	provider := NewProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	_, span := StartToolCall(context.Background(), "get_player_status")
	defer span.End()

	assert.True(t, span.IsRecording())
}

func TestEndRecordsErrorOnSpan(t *testing.T) {
	provider := NewProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	_, span := StartStage(context.Background(), "execution")
	End(span, errors.New("boom"))

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	assert.Equal(t, codes.Error, ro.Status().Code)
	assert.False(t, span.IsRecording())
}
