package detection

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"workforce-backend/internal/llm"
	"workforce-backend/internal/shared/metrics"
	"workforce-backend/internal/shared/telemetry"
	"workforce-backend/internal/workforce"
)

const (
	defaultSampleLimit = 5
	defaultAITimeout   = 10 * time.Second
	promptVersion      = "detect_v1"
)

// PatternDetector sends a bounded snapshot digest to an LLM and normalizes
// the response into findings. Every failure mode degrades to zero findings;
// this path never returns an error to the pipeline.
type PatternDetector struct {
	LLM         llm.Client
	SampleLimit int
	Timeout     time.Duration
}

// Detect runs one LLM call over the snapshot digest.
func (d *PatternDetector) Detect(ctx context.Context, snap Context) []Finding {
	if d == nil || d.LLM == nil {
		return nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	digest, err := buildDigest(snap, d.sampleLimit())
	if err != nil {
		telemetry.Error("detection.ai.digest_failed", map[string]any{"error": err.Error()})
		metrics.IncAIDetectorFailed()
		return nil
	}

	raw, err := d.LLM.DetectPatterns(callCtx, llm.DetectInput{Digest: digest, PromptVersion: promptVersion})
	if err != nil {
		telemetry.Warn("detection.ai.backend_failed", map[string]any{
			"error_code": ErrorCodeAIBackend,
			"error":      err.Error(),
		})
		metrics.IncAIDetectorFailed()
		return nil
	}

	var parsed aiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		telemetry.Warn("detection.ai.parse_failed", map[string]any{
			"error_code": ErrorCodeAIParse,
			"error":      err.Error(),
			"body_len":   len(raw),
		})
		metrics.IncAIDetectorFailed()
		return nil
	}

	findings := make([]Finding, 0, len(parsed.Issues))
	for _, issue := range parsed.Issues {
		if issue.Title == "" {
			continue
		}
		findings = append(findings, normalizeAIIssue(issue))
	}
	return findings
}

func (d *PatternDetector) sampleLimit() int {
	if d.SampleLimit > 0 {
		return d.SampleLimit
	}
	return defaultSampleLimit
}

// aiResponse is the fixed JSON contract the model must produce.
type aiResponse struct {
	Issues []aiIssue `json:"issues"`
}

type aiIssue struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	IssueType       string             `json:"issueType"`
	Severity        string             `json:"severity"`
	Confidence      float64            `json:"confidence"`
	Recommendations []aiRecommendation `json:"recommendations"`
}

type aiRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Automatable bool   `json:"automatable"`
}

func normalizeAIIssue(issue aiIssue) Finding {
	confidence := ClampConfidence(int(issue.Confidence))
	recs := make([]RecommendationDraft, 0, len(issue.Recommendations))
	for i, rec := range issue.Recommendations {
		if rec.Title == "" {
			continue
		}
		recs = append(recs, RecommendationDraft{
			Title:              rec.Title,
			Description:        rec.Description,
			RecommendationType: "ai_suggested",
			Priority:           i + 1,
			Confidence:         confidence,
			Automatable:        rec.Automatable,
			EstimatedDuration:  0,
		})
	}
	return Finding{
		Alert: AlertDraft{
			Title:              issue.Title,
			Description:        issue.Description,
			IssueType:          NormalizeIssueType(issue.IssueType),
			Severity:           NormalizeSeverity(issue.Severity),
			Confidence:         confidence,
			AffectedModule:     "operations",
			AffectedEntityType: "pattern",
			AffectedEntityID:   patternKey(issue.Title),
			DetectionMethod:    MethodAIPowered,
		},
		Recommendations: recs,
	}
}

// patternKey derives a stable entity id from an issue title so that two
// distinct patterns of the same issue type do not share a natural key.
func patternKey(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

type digestPayload struct {
	Totals            map[string]int               `json:"totals"`
	Jobs              []workforce.Job              `json:"jobs"`
	Shifts            []workforce.Shift            `json:"shifts"`
	Payments          []workforce.Payment          `json:"payments"`
	ComplianceRecords []workforce.ComplianceRecord `json:"complianceRecords"`
}

// buildDigest serializes a size-bounded sample of the snapshot. Sampling the
// first records per collection keeps prompt size and cost flat.
func buildDigest(snap Context, limit int) (string, error) {
	payload := digestPayload{
		Totals: map[string]int{
			"jobs":              len(snap.Jobs),
			"shifts":            len(snap.Shifts),
			"payments":          len(snap.Payments),
			"complianceRecords": len(snap.ComplianceRecords),
		},
		Jobs:              capJobs(snap.Jobs, limit),
		Shifts:            capShifts(snap.Shifts, limit),
		Payments:          capPayments(snap.Payments, limit),
		ComplianceRecords: capCompliance(snap.ComplianceRecords, limit),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func capJobs(items []workforce.Job, limit int) []workforce.Job {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func capShifts(items []workforce.Shift, limit int) []workforce.Shift {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func capPayments(items []workforce.Payment, limit int) []workforce.Payment {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func capCompliance(items []workforce.ComplianceRecord, limit int) []workforce.ComplianceRecord {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
