package detection

import (
	"context"
	"errors"
	"testing"
	"time"
)

func storedAlert(id, issueType, severity, status string, createdAt time.Time) Alert {
	return Alert{
		ID:              id,
		Title:           "stored " + id,
		IssueType:       issueType,
		Severity:        severity,
		Status:          status,
		Confidence:      100,
		DetectionMethod: MethodRuleBased,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestMemoryRepoListAlertsOrdersBySeverityThenRecency(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	for _, alert := range []Alert{
		storedAlert("a-low", IssueTypeResourceShortage, SeverityLow, StatusActive, base),
		storedAlert("a-critical", IssueTypeComplianceBreach, SeverityCritical, StatusActive, base),
		storedAlert("a-high-old", IssueTypeUnderstaffing, SeverityHigh, StatusActive, base.Add(-time.Hour)),
		storedAlert("a-high-new", IssueTypeUnderstaffing, SeverityHigh, StatusActive, base),
	} {
		if err := repo.CreateAlertWithRecommendations(ctx, alert, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	alerts, err := repo.ListAlerts(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{}
	for _, alert := range alerts {
		got = append(got, alert.ID)
	}
	want := []string{"a-critical", "a-high-new", "a-high-old", "a-low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMemoryRepoListAlertsFiltersByStatus(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	repo.CreateAlertWithRecommendations(ctx, storedAlert("a1", IssueTypeUnderstaffing, SeverityHigh, StatusActive, now), nil)
	repo.CreateAlertWithRecommendations(ctx, storedAlert("a2", IssueTypeUnderstaffing, SeverityHigh, StatusResolved, now), nil)

	active, err := repo.ListAlerts(ctx, StatusActive)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != "a1" {
		t.Fatalf("unexpected filtered result %#v", active)
	}
}

func TestMemoryRepoUpdateAlertStatus(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Hour)

	repo.CreateAlertWithRecommendations(ctx, storedAlert("a1", IssueTypeUnderstaffing, SeverityHigh, StatusActive, created), nil)

	acknowledged := StatusAcknowledged
	updated, err := repo.UpdateAlert(ctx, "a1", AlertUpdate{Status: &acknowledged})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusAcknowledged {
		t.Fatalf("expected acknowledged, got %q", updated.Status)
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatalf("updatedAt should advance")
	}

	if _, err := repo.UpdateAlert(ctx, "missing", AlertUpdate{Status: &acknowledged}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoRecommendationsSortedByPriority(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	alert := storedAlert("a1", IssueTypeUnderstaffing, SeverityHigh, StatusActive, now)
	recs := []Recommendation{
		{ID: "r2", AlertID: "a1", Title: "second", Priority: 2, CreatedAt: now},
		{ID: "r1", AlertID: "a1", Title: "first", Priority: 1, CreatedAt: now},
	}
	if err := repo.CreateAlertWithRecommendations(ctx, alert, recs); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListRecommendations(ctx, "a1")
	if err != nil {
		t.Fatalf("list recommendations: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("unexpected order %#v", got)
	}
}

func TestMemoryRepoCreateActionRequiresAlert(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	err := repo.CreateAction(ctx, Action{ID: "act1", AlertID: "missing", ActionType: "auto_reschedule"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	repo.CreateAlertWithRecommendations(ctx, storedAlert("a1", IssueTypeSchedulingConflict, SeverityMedium, StatusActive, time.Now().UTC()), nil)
	if err := repo.CreateAction(ctx, Action{ID: "act2", AlertID: "a1", ActionType: "auto_reschedule"}); err != nil {
		t.Fatalf("create action: %v", err)
	}
}

func TestMemoryRepoGetAlertNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetAlert(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
