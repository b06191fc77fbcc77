package detection

import (
	"fmt"
	"time"

	"workforce-backend/internal/workforce"
)

// ResourceShortageEvaluator flags active jobs that stay unfilled too long.
type ResourceShortageEvaluator struct{}

// Name returns the evaluator name.
func (ResourceShortageEvaluator) Name() string { return "resource_shortage" }

// Evaluate flags active jobs open more than 14 days (medium) or 30 days (high).
func (ResourceShortageEvaluator) Evaluate(snap Context, now time.Time) []Finding {
	var findings []Finding
	for _, job := range snap.Jobs {
		if job.Status != workforce.JobStatusActive {
			continue
		}
		days := ageInDays(now, job.CreatedAt)

		var severity string
		switch {
		case days > 30:
			severity = SeverityHigh
		case days > 14:
			severity = SeverityMedium
		default:
			continue
		}

		findings = append(findings, Finding{
			Alert: AlertDraft{
				Title:              "Job unfilled for too long",
				Description:        fmt.Sprintf("Job %q has been open for %d days without being filled.", job.Title, int(days)),
				IssueType:          IssueTypeResourceShortage,
				Severity:           severity,
				Confidence:         90,
				AffectedModule:     "jobs",
				AffectedEntityType: "job",
				AffectedEntityID:   job.ID,
				DetectionMethod:    MethodRuleBased,
				Metadata: map[string]any{
					"title":          job.Title,
					"openDays":       int(days),
					"requiredSkills": job.RequiredSkills,
				},
			},
			Recommendations: []RecommendationDraft{
				{
					Title:                "Promote the job listing",
					Description:          "Boost listing visibility in search and matching.",
					RecommendationType:   "promote_listing",
					Priority:             1,
					Confidence:           90,
					EstimatedImpact:      "More applicants within days",
					RequiredCapabilities: []string{"listings"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"jobId": job.ID},
					EstimatedDuration:    5,
				},
				{
					Title:                "Review job requirements",
					Description:          "Check whether the skill requirements or pay rate are filtering out viable candidates.",
					RecommendationType:   "review_requirements",
					Priority:             2,
					Confidence:           90,
					EstimatedImpact:      "Identifies why the role does not fill",
					RequiredCapabilities: []string{"recruiting"},
					Automatable:          false,
					ActionMetadata:       map[string]any{"jobId": job.ID},
					EstimatedDuration:    30,
				},
			},
		})
	}
	return findings
}
