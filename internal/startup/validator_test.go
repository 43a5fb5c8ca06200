package startup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func passingCheck(name string, category Category) Check {
	return Check{Name: name, Category: category, Critical: false, Run: func(ctx context.Context) Result {
		return Result{Status: StatusPassed, Message: "ok"}
	}}
}

func failingCheck(name string, category Category, critical bool) Check {
	return Check{Name: name, Category: category, Critical: critical, Run: func(ctx context.Context) Result {
		return Result{Status: StatusFailed, Message: "boom"}
	}}
}

func TestRunAggregatesCategoryCounts(t *testing.T) {
	v := New(passingCheck("a", CategoryConfiguration), passingCheck("b", CategoryLLM))
	report := v.Run(context.Background())
	assert.Equal(t, 1, report.CategoryCounts[CategoryConfiguration])
	assert.Equal(t, 1, report.CategoryCounts[CategoryLLM])
	assert.True(t, report.Passed)
}

func TestRunFailsProcessOnlyForCriticalFailures(t *testing.T) {
	v := New(failingCheck("noncritical", CategorySystem, false))
	report := v.Run(context.Background())
	assert.False(t, len(report.FailedChecks) == 0)
	assert.True(t, report.Passed)

	v2 := New(failingCheck("critical", CategorySystem, true))
	report2 := v2.Run(context.Background())
	assert.False(t, report2.Passed)
}

func TestRunConvertsPanicToFailedResult(t *testing.T) {
	v := New(Check{Name: "panics", Category: CategorySystem, Critical: true, Run: func(ctx context.Context) Result {
		panic("boom")
	}})
	report := v.Run(context.Background())
	assert.Len(t, report.Results, 1)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.False(t, report.Passed)
}

func TestRunSkipsDependentCheckAfterDependencyFails(t *testing.T) {
	v := New(
		failingCheck("base", CategorySystem, false),
		Check{Name: "dependent", Category: CategorySystem, DependsOn: "base", Run: func(ctx context.Context) Result {
			return Result{Status: StatusPassed, Message: "should not run"}
		}},
	)
	report := v.Run(context.Background())

	var dependent Result
	for _, r := range report.Results {
		if r.Name == "dependent" {
			dependent = r
		}
	}
	assert.Equal(t, StatusSkipped, dependent.Status)
}

func TestRunRecommendsInvestigationForFailedCategories(t *testing.T) {
	v := New(failingCheck("critical", CategoryDatabase, true))
	report := v.Run(context.Background())
	assert.NotEmpty(t, report.Recommendations)
}

func TestRunRecordsSlowCheckRecommendation(t *testing.T) {
	v := New(Check{Name: "slow", Category: CategorySystem, Run: func(ctx context.Context) Result {
		return Result{Status: StatusPassed, Duration: 6 * time.Second}
	}})
	report := v.Run(context.Background())
	assert.NotEmpty(t, report.Recommendations)
}
