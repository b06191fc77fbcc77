package detection

import (
	"fmt"
	"time"

	"workforce-backend/internal/workforce"
)

// UnderstaffingEvaluator flags published shifts with no assigned worker.
type UnderstaffingEvaluator struct{}

// Name returns the evaluator name.
func (UnderstaffingEvaluator) Name() string { return "understaffing" }

// Evaluate emits one high-severity alert per unassigned published shift.
func (UnderstaffingEvaluator) Evaluate(snap Context, now time.Time) []Finding {
	var findings []Finding
	for _, shift := range snap.Shifts {
		if shift.Status != workforce.ShiftStatusPublished || shift.Assigned() {
			continue
		}
		findings = append(findings, Finding{
			Alert: AlertDraft{
				Title:              "Unassigned published shift",
				Description:        fmt.Sprintf("Shift starting %s at %q is published but has no assigned worker.", shift.StartTime.UTC().Format(time.RFC3339), shift.Location),
				IssueType:          IssueTypeUnderstaffing,
				Severity:           SeverityHigh,
				Confidence:         100,
				AffectedModule:     "scheduling",
				AffectedEntityType: "shift",
				AffectedEntityID:   shift.ID,
				DetectionMethod:    MethodRuleBased,
				Metadata: map[string]any{
					"shiftStart": shift.StartTime.UTC().Format(time.RFC3339),
					"shiftEnd":   shift.EndTime.UTC().Format(time.RFC3339),
					"location":   shift.Location,
					"jobId":      shift.JobID,
				},
			},
			Recommendations: []RecommendationDraft{
				{
					Title:                "Notify matching available workers",
					Description:          "Send shift details to workers whose skills and availability match.",
					RecommendationType:   "notify_matching_workers",
					Priority:             1,
					Confidence:           100,
					EstimatedImpact:      "Shift covered before its start time",
					RequiredCapabilities: []string{"worker_matching", "notifications"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"shiftId": shift.ID},
					EstimatedDuration:    5,
				},
				{
					Title:                "Broadcast shift to worker pool",
					Description:          "Post the open shift to the full worker pool as a fallback.",
					RecommendationType:   "broadcast_shift",
					Priority:             2,
					Confidence:           100,
					EstimatedImpact:      "Wider reach at the cost of match quality",
					RequiredCapabilities: []string{"notifications"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"shiftId": shift.ID},
					EstimatedDuration:    10,
				},
			},
		})
	}
	return findings
}
