package detection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"workforce-backend/internal/shared/metrics"
	"workforce-backend/internal/shared/telemetry"
)

const defaultPassTimeout = 2 * time.Minute

// Service runs one full detection pass: load, evaluate, aggregate, persist.
type Service struct {
	Loader      *Loader
	Evaluators  []Evaluator
	AI          *PatternDetector
	Aggregator  *Aggregator
	Repo        Repo
	PassTimeout time.Duration
}

// PassResult summarizes one completed detection pass.
type PassResult struct {
	StartedAt     time.Time      `json:"startedAt"`
	Duration      time.Duration  `json:"-"`
	DurationMs    float64        `json:"durationMs"`
	AlertsCreated int            `json:"alertsCreated"`
	FailedWrites  int            `json:"failedWrites"`
	BySeverity    map[string]int `json:"bySeverity"`
}

// RunPass executes the full load, evaluate, aggregate, persist sequence. The
// whole pass runs under a timeout budget so a stalled call cannot delay the
// next scheduled tick indefinitely.
func (s *Service) RunPass(ctx context.Context) (PassResult, error) {
	started := time.Now().UTC()
	metrics.IncPassStarted()

	timeout := s.PassTimeout
	if timeout <= 0 {
		timeout = defaultPassTimeout
	}
	passCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snap, err := s.Loader.Load(passCtx)
	if err != nil {
		metrics.IncPassFailed()
		return PassResult{StartedAt: started}, fmt.Errorf("load context: %w", err)
	}

	findings := s.collectFindings(passCtx, snap)
	merged := s.Aggregator.Merge(findings, s.existingAlerts(passCtx))

	result := PassResult{
		StartedAt:  started,
		BySeverity: map[string]int{},
	}
	now := time.Now().UTC()
	for _, finding := range merged {
		alert, recs := materialize(finding, now)
		if err := s.Repo.CreateAlertWithRecommendations(passCtx, alert, recs); err != nil {
			// Other alert groups in the pass still persist; this one will be
			// re-detected on the next pass.
			telemetry.Error("detection.persist.failed", map[string]any{
				"error_code": ErrorCodePersistence,
				"issue_type": alert.IssueType,
				"entity_id":  alert.AffectedEntityID,
				"error":      err.Error(),
			})
			result.FailedWrites++
			continue
		}
		metrics.IncAlertCreated(alert.Severity)
		result.AlertsCreated++
		result.BySeverity[alert.Severity]++
	}

	result.Duration = time.Since(started)
	result.DurationMs = float64(result.Duration.Microseconds()) / 1000.0
	metrics.ObservePassDurationMs(result.DurationMs)
	metrics.IncPassCompleted()

	telemetry.Info("detection.pass.completed", map[string]any{
		"alerts_created": result.AlertsCreated,
		"failed_writes":  result.FailedWrites,
		"by_severity":    result.BySeverity,
		"duration_ms":    result.DurationMs,
	})
	return result, nil
}

// collectFindings runs the rule evaluators and the AI detector concurrently.
// Evaluators are pure and share no mutable state.
func (s *Service) collectFindings(ctx context.Context, snap Context) []Finding {
	now := snap.LoadedAt
	results := make([][]Finding, len(s.Evaluators)+1)

	var wg sync.WaitGroup
	for i, evaluator := range s.Evaluators {
		wg.Add(1)
		go func(i int, evaluator Evaluator) {
			defer wg.Done()
			results[i] = evaluator.Evaluate(snap, now)
		}(i, evaluator)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[len(s.Evaluators)] = s.AI.Detect(ctx, snap)
	}()
	wg.Wait()

	var findings []Finding
	for _, batch := range results {
		findings = append(findings, batch...)
	}
	return findings
}

func (s *Service) existingAlerts(ctx context.Context) []Alert {
	// Suppression needs every status the aggregator treats as suppressing;
	// one unfiltered list keeps it to a single query.
	existing, err := s.Repo.ListAlerts(ctx, "")
	if err != nil {
		telemetry.Warn("detection.aggregate.existing_unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	return existing
}

// materialize assigns ids and timestamps, producing the persistable pair.
// The alert id exists before any recommendation references it.
func materialize(finding Finding, now time.Time) (Alert, []Recommendation) {
	alert := Alert{
		ID:                 uuid.NewString(),
		Title:              finding.Alert.Title,
		Description:        finding.Alert.Description,
		IssueType:          finding.Alert.IssueType,
		Severity:           finding.Alert.Severity,
		Status:             StatusActive,
		Confidence:         ClampConfidence(finding.Alert.Confidence),
		AffectedModule:     finding.Alert.AffectedModule,
		AffectedEntityType: finding.Alert.AffectedEntityType,
		AffectedEntityID:   finding.Alert.AffectedEntityID,
		DetectionMethod:    finding.Alert.DetectionMethod,
		Metadata:           finding.Alert.Metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	recs := make([]Recommendation, 0, len(finding.Recommendations))
	for _, draft := range finding.Recommendations {
		recs = append(recs, Recommendation{
			ID:                   uuid.NewString(),
			AlertID:              alert.ID,
			Title:                draft.Title,
			Description:          draft.Description,
			RecommendationType:   draft.RecommendationType,
			Priority:             draft.Priority,
			Confidence:           ClampConfidence(draft.Confidence),
			EstimatedImpact:      draft.EstimatedImpact,
			RequiredCapabilities: draft.RequiredCapabilities,
			Automatable:          draft.Automatable,
			ActionMetadata:       draft.ActionMetadata,
			EstimatedDuration:    draft.EstimatedDuration,
			CreatedAt:            now,
		})
	}
	return alert, recs
}
