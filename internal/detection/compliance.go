package detection

import (
	"fmt"
	"time"

	"workforce-backend/internal/workforce"
)

// ComplianceBreachEvaluator flags non-compliant and at-risk compliance records.
type ComplianceBreachEvaluator struct{}

// Name returns the evaluator name.
func (ComplianceBreachEvaluator) Name() string { return "compliance_breach" }

// Evaluate maps record status to severity: non_compliant critical, at_risk high.
func (ComplianceBreachEvaluator) Evaluate(snap Context, now time.Time) []Finding {
	var findings []Finding
	for _, record := range snap.ComplianceRecords {
		var severity string
		switch record.Status {
		case workforce.ComplianceStatusNonCompliant:
			severity = SeverityCritical
		case workforce.ComplianceStatusAtRisk:
			severity = SeverityHigh
		default:
			continue
		}

		metadata := map[string]any{
			"requirement": record.Requirement,
			"subjectType": record.SubjectType,
			"subjectId":   record.SubjectID,
			"status":      record.Status,
		}
		if record.ExpiresAt != nil {
			metadata["expiresAt"] = record.ExpiresAt.UTC().Format(time.RFC3339)
		}

		findings = append(findings, Finding{
			Alert: AlertDraft{
				Title:              fmt.Sprintf("Compliance %s: %s", record.Status, record.Requirement),
				Description:        fmt.Sprintf("%s %s is %s for requirement %q.", record.SubjectType, record.SubjectID, record.Status, record.Requirement),
				IssueType:          IssueTypeComplianceBreach,
				Severity:           severity,
				Confidence:         100,
				AffectedModule:     "compliance",
				AffectedEntityType: record.SubjectType,
				AffectedEntityID:   record.SubjectID,
				DetectionMethod:    MethodRuleBased,
				Metadata:           metadata,
			},
			Recommendations: []RecommendationDraft{
				{
					Title:                "Auto-generate compliance documentation",
					Description:          "Generate the missing documentation pack from current records.",
					RecommendationType:   "generate_compliance_docs",
					Priority:             1,
					Confidence:           100,
					EstimatedImpact:      "Closes the documentation gap",
					RequiredCapabilities: []string{"compliance_docs"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"recordId": record.ID},
					EstimatedDuration:    15,
				},
				{
					Title:                "Escalate to compliance officer",
					Description:          "Route the record to a compliance officer for review and sign-off.",
					RecommendationType:   "escalate_compliance",
					Priority:             2,
					Confidence:           100,
					EstimatedImpact:      "Human review of the breach",
					RequiredCapabilities: []string{"escalation"},
					Automatable:          false,
					ActionMetadata:       map[string]any{"recordId": record.ID},
					EstimatedDuration:    60,
				},
			},
		})
	}
	return findings
}
