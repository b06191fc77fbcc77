package detection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"workforce-backend/internal/workforce"
)

func newTestRouter(t *testing.T, repo Repo, scheduler *Scheduler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(scheduler, repo).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func seedAlertWithRecs(t *testing.T, repo Repo) Alert {
	t.Helper()
	now := time.Now().UTC()
	alert := Alert{
		ID:               "alert-1",
		Title:            "Unassigned published shift",
		IssueType:        IssueTypeUnderstaffing,
		Severity:         SeverityHigh,
		Status:           StatusActive,
		Confidence:       100,
		AffectedModule:   "scheduling",
		AffectedEntityID: "s1",
		DetectionMethod:  MethodRuleBased,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	recs := []Recommendation{
		{ID: "rec-1", AlertID: alert.ID, Title: "Notify matching available workers", Priority: 1, Confidence: 100, CreatedAt: now},
	}
	if err := repo.CreateAlertWithRecommendations(context.Background(), alert, recs); err != nil {
		t.Fatalf("seed alert: %v", err)
	}
	return alert
}

func TestRunDetectionEndpointTriggersPass(t *testing.T) {
	repo := NewMemoryRepo()
	scheduler := NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour)
	router := newTestRouter(t, repo, scheduler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detection/run", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["triggered"] != true {
		t.Fatalf("expected triggered=true, got %v", body)
	}
	waitForIdle(t, scheduler)
}

func TestRunDetectionEndpointReportsInFlightPass(t *testing.T) {
	gate := &gatedWorkforce{MemoryRepo: workforce.NewMemoryRepo(), release: make(chan struct{})}
	repo := NewMemoryRepo()
	scheduler := NewScheduler(newTestService(gate, repo), time.Hour)
	router := newTestRouter(t, repo, scheduler)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/detection/run", nil))
	if first.Code != http.StatusAccepted {
		t.Fatalf("first trigger: expected 202, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/detection/run", nil))
	if second.Code != http.StatusAccepted {
		t.Fatalf("second trigger: expected 202, got %d", second.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["triggered"] != false || body["reason"] != "pass_in_flight" {
		t.Fatalf("expected in-flight rejection, got %v", body)
	}

	close(gate.release)
	waitForIdle(t, scheduler)
}

func TestDetectionStatusEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	scheduler := NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), 30*time.Minute)
	router := newTestRouter(t, repo, scheduler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/detection/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status SchedulerStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.IntervalMinutes != 30 || status.Running {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestListAlertsEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts?status=active", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Alerts []Alert `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Alerts) != 1 || body.Alerts[0].ID != "alert-1" {
		t.Fatalf("unexpected alerts %#v", body.Alerts)
	}
}

func TestListAlertsEmptyIsAnArray(t *testing.T) {
	repo := NewMemoryRepo()
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"alerts":[]`) {
		t.Fatalf("empty list should serialize as [], got %s", rec.Body.String())
	}
}

func TestListAlertsRejectsUnknownStatus(t *testing.T) {
	repo := NewMemoryRepo()
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts?status=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetAlertEndpointNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateAlertEndpointLifecycle(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/alerts/alert-1", strings.NewReader(`{"status":"acknowledged"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var alert Alert
	if err := json.Unmarshal(rec.Body.Bytes(), &alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if alert.Status != StatusAcknowledged {
		t.Fatalf("expected acknowledged, got %q", alert.Status)
	}
}

func TestUpdateAlertEndpointRejectsUnknownStatus(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/alerts/alert-1", strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListRecommendationsEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts/alert-1/recommendations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].ID != "rec-1" {
		t.Fatalf("unexpected recommendations %#v", body.Recommendations)
	}

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/v1/alerts/nope/recommendations", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing alert, got %d", missing.Code)
	}
}

func TestCreateActionEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/alert-1/actions",
		strings.NewReader(`{"actionType":"notify_matching_workers","executedBy":"ops@example.com","result":"success","recommendationId":"rec-1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var action Action
	if err := json.Unmarshal(rec.Body.Bytes(), &action); err != nil {
		t.Fatalf("decode action: %v", err)
	}
	if action.ID == "" || action.AlertID != "alert-1" || action.ActionType != "notify_matching_workers" {
		t.Fatalf("unexpected action %#v", action)
	}
}

func TestCreateActionEndpointRequiresActionType(t *testing.T) {
	repo := NewMemoryRepo()
	seedAlertWithRecs(t, repo)
	router := newTestRouter(t, repo, NewScheduler(newTestService(workforce.NewMemoryRepo(), repo), time.Hour))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/alert-1/actions", strings.NewReader(`{"executedBy":"ops"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
