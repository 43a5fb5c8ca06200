// Package startup implements the startup validator of spec.md §4.6: a
// parallel runner of categorized checks that gates the process from coming
// up in a broken state. Checks run concurrently (grounded on the teacher's
// sync.WaitGroup fan-out pattern, e.g. internal/gateway/message_service.go);
// a check may declare a dependency to force sequential ordering, and any
// panic inside a check converts to a failed result instead of aborting the
// run.
package startup

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

const slowCheckThreshold = 5 * time.Second

// Report is the aggregated outcome of one validation run.
type Report struct {
	Results         []Result         `json:"results"`
	CategoryCounts  map[Category]int `json:"category_counts"`
	FailedChecks    []Result         `json:"failed_checks"`
	Warnings        []Result         `json:"warnings"`
	Recommendations []string         `json:"recommendations"`
	Passed          bool             `json:"passed"`
	Duration        time.Duration    `json:"duration_ms"`
}

// Validator runs a fixed set of checks and produces a Report.
type Validator struct {
	checks []Check
}

// New builds a Validator over the given checks.
func New(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// Run executes every check — independent checks concurrently, dependent
// checks after their dependency resolves — and produces the aggregated
// Report. Run never panics: a panicking check's result is a failure, not a
// crashed process (spec.md §4.6 "individual exceptions ... convert to a
// failed result").
func (v *Validator) Run(ctx context.Context) Report {
	start := time.Now()

	byName := make(map[string]Check, len(v.checks))
	for _, c := range v.checks {
		byName[c.Name] = c
	}

	results := make(map[string]Result, len(v.checks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	// independent checks run immediately; dependent ones wait on their
	// dependency's result via a small per-name done channel.
	done := make(map[string]chan struct{}, len(v.checks))
	for _, c := range v.checks {
		done[c.Name] = make(chan struct{})
	}

	for _, c := range v.checks {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(done[c.Name])

			if c.DependsOn != "" {
				if depDone, ok := done[c.DependsOn]; ok {
					<-depDone
				}
				mu.Lock()
				dep, ran := results[c.DependsOn]
				mu.Unlock()
				if ran && dep.Status != StatusPassed {
					skip := Result{Name: c.Name, Category: c.Category, Status: StatusSkipped,
						Message: fmt.Sprintf("skipped: dependency %q did not pass", c.DependsOn)}
					mu.Lock()
					results[c.Name] = skip
					mu.Unlock()
					return
				}
			}

			res := runOne(ctx, c)
			mu.Lock()
			results[c.Name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	out := make([]Result, 0, len(v.checks))
	for _, c := range v.checks {
		out = append(out, results[c.Name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return buildReport(out, byName, time.Since(start))
}

// runOne executes a single check, converting a panic into a failed result.
func runOne(ctx context.Context, c Check) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{Name: c.Name, Category: c.Category, Status: StatusFailed,
				Message: fmt.Sprintf("check panicked: %v", r), Duration: time.Since(start)}
		}
	}()
	res = c.Run(ctx)
	res.Name = c.Name
	res.Category = c.Category
	if res.Duration == 0 {
		res.Duration = time.Since(start)
	}
	return res
}

func buildReport(results []Result, byName map[string]Check, total time.Duration) Report {
	report := Report{
		Results:        results,
		CategoryCounts: map[Category]int{},
		Passed:         true,
		Duration:       total,
	}

	for _, res := range results {
		report.CategoryCounts[res.Category]++

		switch res.Status {
		case StatusFailed:
			report.FailedChecks = append(report.FailedChecks, res)
			if byName[res.Name].Critical {
				report.Passed = false
			}
		case StatusWarning:
			report.Warnings = append(report.Warnings, res)
		}

		if res.Duration > slowCheckThreshold {
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("check %q took %s — consider narrowing its probe or running it less often", res.Name, res.Duration))
		}
	}

	seenCategory := map[Category]bool{}
	for _, res := range report.FailedChecks {
		if seenCategory[res.Category] {
			continue
		}
		seenCategory[res.Category] = true
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("investigate %s failures before accepting traffic", res.Category))
	}

	return report
}
