// Package report collects per-task outcomes and renders the consolidated
// batch report. The aggregator re-imposes a stable order (by service id) so
// non-deterministic completion order never leaks into user-visible output.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/polyforge/polyforge/pkg/types"
)

// Aggregator collects BuildResults from potentially concurrent writers.
// Each service id may be recorded at most once per invocation.
type Aggregator struct {
	mu      sync.Mutex
	results map[string]types.BuildResult
}

// NewAggregator creates an empty aggregator for one invocation.
func NewAggregator() *Aggregator {
	return &Aggregator{
		results: make(map[string]types.BuildResult),
	}
}

// Record appends one terminal result. It is safe for concurrent use; a
// duplicate service id indicates a scheduler defect and is rejected.
func (a *Aggregator) Record(result types.BuildResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.results[result.ServiceID]; ok {
		return fmt.Errorf("duplicate result for service %s", result.ServiceID)
	}
	a.results[result.ServiceID] = result
	return nil
}

// Results returns all recorded results sorted by service id.
func (a *Aggregator) Results() []types.BuildResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]types.BuildResult, 0, len(a.results))
	for _, r := range a.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ServiceID < out[j].ServiceID
	})
	return out
}

// Len returns the number of recorded results.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// AllSucceeded reports whether every recorded task succeeded. An empty
// aggregator counts as success (a clean-only run records no build tasks).
func (a *Aggregator) AllSucceeded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.results {
		if !r.Succeeded() {
			return false
		}
	}
	return true
}

// FailedServices returns the ids of failed tasks, sorted.
func (a *Aggregator) FailedServices() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var failed []string
	for id, r := range a.results {
		if !r.Succeeded() {
			failed = append(failed, id)
		}
	}
	sort.Strings(failed)
	return failed
}

// Reporter renders the aggregate into a table and summary line.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Render prints the sorted result table followed by the batch summary.
// batchDuration is the wall-clock time of the whole batch, not the sum of
// task durations (concurrent tasks overlap).
func (r *Reporter) Render(agg *Aggregator, batchDuration time.Duration) {
	results := agg.Results()

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tKIND\tSTATUS\tDURATION\tDETAIL")
	fmt.Fprintln(w, "-------\t----\t------\t--------\t------")

	for _, result := range results {
		status := color.GreenString(string(result.Status))
		if !result.Succeeded() {
			status = color.RedString(string(result.Status))
		}

		detail := result.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			result.ServiceID,
			result.Kind,
			status,
			result.Duration.Round(time.Millisecond),
			detail,
		)
	}
	w.Flush()

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.Summary(agg, batchDuration))
}

// Summary builds the one-line batch summary.
func (r *Reporter) Summary(agg *Aggregator, batchDuration time.Duration) string {
	results := agg.Results()

	succeeded := 0
	for _, result := range results {
		if result.Succeeded() {
			succeeded++
		}
	}

	summary := fmt.Sprintf("%d/%d succeeded in %s",
		succeeded, len(results), batchDuration.Round(time.Millisecond))

	if failed := agg.FailedServices(); len(failed) > 0 {
		summary += fmt.Sprintf(" (failed: %s)", strings.Join(failed, ", "))
	}
	return summary
}
