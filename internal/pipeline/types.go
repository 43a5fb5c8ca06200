// Package pipeline implements the seven-stage orchestration chain of
// spec.md §4.4: intent classification, entity validation, complexity
// assessment, task decomposition, entity-aware routing, execution, and
// aggregation. Every stage records exactly one step result; a stage's
// failure never escapes as a panic, and the aggregate reply is always a
// non-empty string (spec.md §8).
package pipeline

import (
	"time"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/tools"
)

// StageName identifies one of the seven fixed pipeline stages.
type StageName string

const (
	StageIntentClassification StageName = "intent_classification"
	StageEntityValidation     StageName = "entity_validation"
	StageComplexityAssessment StageName = "complexity_assessment"
	StageTaskDecomposition    StageName = "task_decomposition"
	StageRouting              StageName = "entity_aware_routing"
	StageExecution            StageName = "execution"
	StageAggregation          StageName = "aggregation"
)

// StepResult is the per-stage record appended to an execution's history.
type StepResult struct {
	Stage    StageName     `json:"stage"`
	Success  bool          `json:"success"`
	Detail   any           `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Intent is stage 1's output.
type Intent struct {
	Name       string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities"`
}

// Known intent names (spec.md §4.4 stage 1's "small fixed intent set").
const (
	IntentHelpRequest   = "help_request"
	IntentStatusInquiry = "status_inquiry"
	IntentRegistration  = "registration"
	IntentListRequest   = "list_request"
	IntentGeneralInquiry = "general_inquiry"
	IntentUnknown       = "unknown"
)

// EntityValidation is stage 2's output.
type EntityValidation struct {
	IsValid        bool             `json:"is_valid"`
	EntityType     tools.EntityType `json:"entity_type"`
	ErrorMessage   string           `json:"error_message,omitempty"`
	SuggestedAgent agents.Role      `json:"suggested_agent,omitempty"`
}

// ComplexityLevel is stage 3's coarse bucket.
type ComplexityLevel string

const (
	ComplexityLow       ComplexityLevel = "low"
	ComplexityMedium    ComplexityLevel = "medium"
	ComplexityHigh      ComplexityLevel = "high"
	ComplexityVeryHigh  ComplexityLevel = "very_high"
)

// Complexity is stage 3's output.
type Complexity struct {
	Level     ComplexityLevel `json:"level"`
	Score     float64         `json:"score"`
	Reasoning string          `json:"reasoning"`
}

// Subtask is one entry of stage 4's advisory decomposition.
type Subtask struct {
	TaskID               string      `json:"task_id"`
	Description          string      `json:"description"`
	RequiredCapabilities []string    `json:"required_capabilities"`
	AgentRole            agents.Role `json:"agent_role"`
	EstimatedDuration    time.Duration `json:"estimated_duration"`
}

// EntityOperationContext is stage 5's routing output, carried into
// execution (spec.md §4.4 stage 5).
type EntityOperationContext struct {
	Description string
	AgentRole   agents.Role
	ToolID      string
	Parameters  map[string]any
	EntityType  tools.EntityType
	Validation  EntityValidation
}

// ExecutionResult is stage 6's output.
type ExecutionResult struct {
	Reply       string `json:"reply"`
	AgentRole   agents.Role `json:"agent_role"`
	FellBack    bool   `json:"fell_back"`
	ErrorCaught string `json:"error_caught,omitempty"`
}

// Aggregation is stage 7's output and the pipeline's final record.
type Aggregation struct {
	Reply           string     `json:"reply"`
	CompletedSteps  int        `json:"completed_steps"`
	FailedSteps     int        `json:"failed_steps"`
	EntitySummary   string     `json:"entity_summary"`
	Steps           []StepResult `json:"steps"`
}

// Record is the mutable state threaded through all seven stages.
type Record struct {
	ID              string
	TaskDescription string
	Steps           []StepResult

	Intent       Intent
	Validation   EntityValidation
	Complexity   Complexity
	Subtasks     []Subtask
	RouteContext EntityOperationContext
	Execution    ExecutionResult
	Aggregation  Aggregation
}

func (r *Record) record(stage StageName, success bool, detail any, err error, start time.Time) {
	sr := StepResult{Stage: stage, Success: success, Detail: detail, Duration: time.Since(start)}
	if err != nil {
		sr.Error = err.Error()
	}
	r.Steps = append(r.Steps, sr)
}
