package detection

import (
	"sort"

	"workforce-backend/internal/shared/metrics"
	"workforce-backend/internal/shared/telemetry"
)

// Aggregator merges rule-based and AI findings into one deduplicated stream.
type Aggregator struct {
	// SuppressStatuses lists alert statuses whose existing alert for a natural
	// key suppresses re-emission. Defaults to active only, so resolved alerts
	// surface again if the underlying condition persists.
	SuppressStatuses []string
}

// NaturalKey identifies an alert for deduplication purposes.
func NaturalKey(issueType, affectedEntityID string) string {
	return issueType + "|" + affectedEntityID
}

// Merge concatenates findings, keeps the higher-confidence instance per
// natural key, prioritizes recommendations, and suppresses findings whose key
// already has an alert in a suppressing status.
func (a *Aggregator) Merge(findings []Finding, existing []Alert) []Finding {
	deduped := dedupeFindings(findings)

	suppressed := a.suppressedKeys(existing)
	out := make([]Finding, 0, len(deduped))
	for _, finding := range deduped {
		key := NaturalKey(finding.Alert.IssueType, finding.Alert.AffectedEntityID)
		if _, ok := suppressed[key]; ok {
			metrics.IncAlertsSuppressed()
			telemetry.Info("detection.aggregate.suppressed", map[string]any{
				"issue_type": finding.Alert.IssueType,
				"entity_id":  finding.Alert.AffectedEntityID,
			})
			continue
		}
		out = append(out, finding)
	}

	// Persist the most severe alerts first so a partially failed pass keeps
	// the ones that matter most.
	sort.SliceStable(out, func(i, j int) bool {
		return SeverityRank(out[i].Alert.Severity) > SeverityRank(out[j].Alert.Severity)
	})
	for i := range out {
		sortRecommendations(out[i].Recommendations)
	}
	return out
}

func dedupeFindings(findings []Finding) []Finding {
	seen := make(map[string]int, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, finding := range findings {
		key := NaturalKey(finding.Alert.IssueType, finding.Alert.AffectedEntityID)
		if idx, ok := seen[key]; ok {
			if finding.Alert.Confidence > out[idx].Alert.Confidence {
				out[idx] = finding
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, finding)
	}
	return out
}

func (a *Aggregator) suppressedKeys(existing []Alert) map[string]struct{} {
	statuses := a.SuppressStatuses
	if len(statuses) == 0 {
		statuses = []string{StatusActive}
	}
	statusSet := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		statusSet[status] = struct{}{}
	}

	keys := make(map[string]struct{}, len(existing))
	for _, alert := range existing {
		if _, ok := statusSet[alert.Status]; !ok {
			continue
		}
		keys[NaturalKey(alert.IssueType, alert.AffectedEntityID)] = struct{}{}
	}
	return keys
}

// sortRecommendations orders by ascending priority, then higher confidence.
func sortRecommendations(recs []RecommendationDraft) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority < recs[j].Priority
		}
		return recs[i].Confidence > recs[j].Confidence
	})
}
