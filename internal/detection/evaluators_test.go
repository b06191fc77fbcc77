package detection

import (
	"testing"
	"time"

	"workforce-backend/internal/workforce"
)

func TestUnderstaffingFlagsUnassignedPublishedShift(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	snap := Context{
		Shifts: []workforce.Shift{
			{ID: "open", Status: workforce.ShiftStatusPublished, StartTime: now.Add(time.Hour), EndTime: now.Add(5 * time.Hour)},
			{ID: "covered", Status: workforce.ShiftStatusPublished, WorkerID: "w1", StartTime: now, EndTime: now.Add(4 * time.Hour)},
			{ID: "draft", Status: workforce.ShiftStatusDraft, StartTime: now, EndTime: now.Add(4 * time.Hour)},
		},
	}

	findings := UnderstaffingEvaluator{}.Evaluate(snap, now)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	alert := findings[0].Alert
	if alert.IssueType != IssueTypeUnderstaffing || alert.Severity != SeverityHigh {
		t.Fatalf("unexpected alert %q/%q", alert.IssueType, alert.Severity)
	}
	if alert.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", alert.Confidence)
	}
	if alert.AffectedEntityID != "open" {
		t.Fatalf("expected shift 'open', got %q", alert.AffectedEntityID)
	}

	recs := findings[0].Recommendations
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].RecommendationType != "notify_matching_workers" || recs[0].Priority != 1 {
		t.Fatalf("unexpected first recommendation %q prio %d", recs[0].RecommendationType, recs[0].Priority)
	}
	if !recs[0].Automatable || !recs[1].Automatable {
		t.Fatalf("understaffing recommendations should be automatable")
	}
}

func TestPaymentDelaySeverityLadder(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		ageDays  int
		severity string
	}{
		{name: "fresh pending payment is not an issue", ageDays: 6, severity: ""},
		{name: "eight days is medium", ageDays: 8, severity: SeverityMedium},
		{name: "fifteen days is high", ageDays: 15, severity: SeverityHigh},
		{name: "thirty one days is critical", ageDays: 31, severity: SeverityCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Context{
				Payments: []workforce.Payment{{
					ID:        "p1",
					WorkerID:  "w1",
					Amount:    420.50,
					Currency:  "USD",
					Status:    workforce.PaymentStatusPending,
					CreatedAt: now.AddDate(0, 0, -tc.ageDays),
				}},
			}

			findings := PaymentDelayEvaluator{}.Evaluate(snap, now)
			if tc.severity == "" {
				if len(findings) != 0 {
					t.Fatalf("expected no findings, got %d", len(findings))
				}
				return
			}
			if len(findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(findings))
			}
			if got := findings[0].Alert.Severity; got != tc.severity {
				t.Fatalf("expected severity %q, got %q", tc.severity, got)
			}
			if got := findings[0].Alert.IssueType; got != IssueTypePaymentDelay {
				t.Fatalf("unexpected issue type %q", got)
			}
			if findings[0].Recommendations[0].RecommendationType != "process_payment" {
				t.Fatalf("expected process_payment first, got %q", findings[0].Recommendations[0].RecommendationType)
			}
		})
	}
}

func TestPaymentDelayIgnoresSettledPayments(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	snap := Context{
		Payments: []workforce.Payment{
			{ID: "paid", Status: workforce.PaymentStatusPaid, CreatedAt: now.AddDate(0, 0, -60)},
			{ID: "failed", Status: workforce.PaymentStatusFailed, CreatedAt: now.AddDate(0, 0, -60)},
		},
	}
	if findings := (PaymentDelayEvaluator{}).Evaluate(snap, now); len(findings) != 0 {
		t.Fatalf("expected no findings for settled payments, got %d", len(findings))
	}
}

func TestComplianceBreachSeverityByStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	snap := Context{
		ComplianceRecords: []workforce.ComplianceRecord{
			{ID: "c1", SubjectType: "worker", SubjectID: "w1", Requirement: "food_safety_cert", Status: workforce.ComplianceStatusNonCompliant},
			{ID: "c2", SubjectType: "worker", SubjectID: "w2", Requirement: "right_to_work", Status: workforce.ComplianceStatusAtRisk},
			{ID: "c3", SubjectType: "worker", SubjectID: "w3", Requirement: "right_to_work", Status: workforce.ComplianceStatusCompliant},
		},
	}

	findings := ComplianceBreachEvaluator{}.Evaluate(snap, now)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	bySubject := map[string]AlertDraft{}
	for _, finding := range findings {
		bySubject[finding.Alert.AffectedEntityID] = finding.Alert
	}
	if bySubject["w1"].Severity != SeverityCritical {
		t.Fatalf("non_compliant should be critical, got %q", bySubject["w1"].Severity)
	}
	if bySubject["w2"].Severity != SeverityHigh {
		t.Fatalf("at_risk should be high, got %q", bySubject["w2"].Severity)
	}
	if _, ok := bySubject["w3"]; ok {
		t.Fatalf("compliant record should not alert")
	}
}

func TestComplianceBreachRecommendationsSplitAutomatable(t *testing.T) {
	now := time.Now().UTC()
	snap := Context{
		ComplianceRecords: []workforce.ComplianceRecord{
			{ID: "c1", SubjectType: "worker", SubjectID: "w1", Requirement: "dbs_check", Status: workforce.ComplianceStatusNonCompliant},
		},
	}

	findings := ComplianceBreachEvaluator{}.Evaluate(snap, now)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	recs := findings[0].Recommendations
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if !recs[0].Automatable {
		t.Fatalf("doc generation should be automatable")
	}
	if recs[1].Automatable {
		t.Fatalf("escalation should require a human")
	}
}

func TestResourceShortageAgeThresholds(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		ageDays  int
		status   string
		severity string
	}{
		{name: "ten days open is fine", ageDays: 10, status: workforce.JobStatusActive, severity: ""},
		{name: "twenty days is medium", ageDays: 20, status: workforce.JobStatusActive, severity: SeverityMedium},
		{name: "forty days is high", ageDays: 40, status: workforce.JobStatusActive, severity: SeverityHigh},
		{name: "filled job never alerts", ageDays: 40, status: workforce.JobStatusFilled, severity: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Context{
				Jobs: []workforce.Job{{
					ID:        "j1",
					Title:     "Line cook",
					Status:    tc.status,
					CreatedAt: now.AddDate(0, 0, -tc.ageDays),
				}},
			}
			findings := ResourceShortageEvaluator{}.Evaluate(snap, now)
			if tc.severity == "" {
				if len(findings) != 0 {
					t.Fatalf("expected no findings, got %d", len(findings))
				}
				return
			}
			if len(findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(findings))
			}
			if got := findings[0].Alert.Severity; got != tc.severity {
				t.Fatalf("expected severity %q, got %q", tc.severity, got)
			}
			if got := findings[0].Alert.Confidence; got != 90 {
				t.Fatalf("expected confidence 90, got %d", got)
			}
		})
	}
}

func TestDefaultEvaluatorsCoverAllRuleTypes(t *testing.T) {
	want := map[string]bool{
		"understaffing":       false,
		"scheduling_conflict": false,
		"payment_delay":       false,
		"compliance_breach":   false,
		"resource_shortage":   false,
	}
	for _, evaluator := range DefaultEvaluators() {
		if _, ok := want[evaluator.Name()]; !ok {
			t.Fatalf("unexpected evaluator %q", evaluator.Name())
		}
		want[evaluator.Name()] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing evaluator %q", name)
		}
	}
}
