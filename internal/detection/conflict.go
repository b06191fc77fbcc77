package detection

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"workforce-backend/internal/workforce"
)

// SchedulingConflictEvaluator finds pairs of overlapping non-cancelled shifts.
// It sorts by start time and sweeps with an end-time-ordered active set, so
// the scan is O(n log n) plus one unit of work per conflicting pair.
type SchedulingConflictEvaluator struct{}

// Name returns the evaluator name.
func (SchedulingConflictEvaluator) Name() string { return "scheduling_conflict" }

// Evaluate emits exactly one medium-severity alert per overlapping pair.
func (SchedulingConflictEvaluator) Evaluate(snap Context, now time.Time) []Finding {
	shifts := make([]workforce.Shift, 0, len(snap.Shifts))
	for _, shift := range snap.Shifts {
		if shift.Status == workforce.ShiftStatusCancelled {
			continue
		}
		shifts = append(shifts, shift)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].StartTime.Equal(shifts[j].StartTime) {
			return shifts[i].StartTime.Before(shifts[j].StartTime)
		}
		return shifts[i].ID < shifts[j].ID
	})

	var findings []Finding
	active := &shiftEndHeap{}
	for _, current := range shifts {
		// Shifts ending at or before the current start can never conflict again.
		for active.Len() > 0 && !(*active)[0].EndTime.After(current.StartTime) {
			heap.Pop(active)
		}
		// Every remaining active shift satisfies start1 < end2 && start2 < end1.
		for _, earlier := range *active {
			findings = append(findings, conflictFinding(earlier, current))
		}
		heap.Push(active, current)
	}
	return findings
}

// overlapWindow is the shared interval of two conflicting shifts. It stays
// typed until the metadata boundary.
type overlapWindow struct {
	Start time.Time
	End   time.Time
}

func (w overlapWindow) metadata() map[string]any {
	return map[string]any{
		"start": w.Start.UTC().Format(time.RFC3339),
		"end":   w.End.UTC().Format(time.RFC3339),
	}
}

func conflictFinding(earlier, later workforce.Shift) Finding {
	window := overlapWindow{Start: later.StartTime, End: earlier.EndTime}
	if later.EndTime.Before(window.End) {
		window.End = later.EndTime
	}

	return Finding{
		Alert: AlertDraft{
			Title:              "Overlapping shifts",
			Description:        fmt.Sprintf("Shifts %s and %s overlap between %s and %s.", earlier.ID, later.ID, window.Start.UTC().Format(time.RFC3339), window.End.UTC().Format(time.RFC3339)),
			IssueType:          IssueTypeSchedulingConflict,
			Severity:           SeverityMedium,
			Confidence:         98,
			AffectedModule:     "scheduling",
			AffectedEntityType: "shift_pair",
			AffectedEntityID:   earlier.ID + ":" + later.ID,
			DetectionMethod:    MethodRuleBased,
			Metadata: map[string]any{
				"firstShiftId":  earlier.ID,
				"secondShiftId": later.ID,
				"overlap":       window.metadata(),
			},
		},
		Recommendations: []RecommendationDraft{
			{
				Title:                "Auto-reschedule the later shift",
				Description:          fmt.Sprintf("Move shift %s to the next free slot after %s.", later.ID, earlier.EndTime.UTC().Format(time.RFC3339)),
				RecommendationType:   "auto_reschedule",
				Priority:             1,
				Confidence:           98,
				EstimatedImpact:      "Removes the double booking without manual triage",
				RequiredCapabilities: []string{"scheduling"},
				Automatable:          true,
				ActionMetadata:       map[string]any{"shiftId": later.ID, "notBefore": earlier.EndTime.UTC().Format(time.RFC3339)},
				EstimatedDuration:    5,
			},
		},
	}
}

type shiftEndHeap []workforce.Shift

func (h shiftEndHeap) Len() int { return len(h) }
func (h shiftEndHeap) Less(i, j int) bool {
	if !h[i].EndTime.Equal(h[j].EndTime) {
		return h[i].EndTime.Before(h[j].EndTime)
	}
	return h[i].ID < h[j].ID
}
func (h shiftEndHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *shiftEndHeap) Push(x any) {
	*h = append(*h, x.(workforce.Shift))
}

func (h *shiftEndHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
