package workforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newSeedRouter(memory *MemoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(memory).RegisterDevRoutes(router.Group("/api/v1/dev"))
	return router
}

func TestSeedReplacesSnapshotAndAssignsIDs(t *testing.T) {
	memory := NewMemoryRepo()
	router := newSeedRouter(memory)

	payload := `{
		"shifts": [{"status": "published", "location": "warehouse"}],
		"payments": [{"id": "p1", "workerId": "w1", "amount": 100, "currency": "USD", "status": "pending"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/workforce/seed", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["shifts"] != float64(1) || body["payments"] != float64(1) {
		t.Fatalf("unexpected counts %v", body)
	}

	shifts, err := memory.ListShifts(context.Background())
	if err != nil {
		t.Fatalf("list shifts: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID == "" {
		t.Fatalf("seeded shift should get an id, got %#v", shifts)
	}

	payments, _ := memory.ListPayments(context.Background())
	if len(payments) != 1 || payments[0].ID != "p1" {
		t.Fatalf("provided ids should be preserved, got %#v", payments)
	}
}

func TestSeedRejectsInvalidPayload(t *testing.T) {
	router := newSeedRouter(NewMemoryRepo())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/workforce/seed", strings.NewReader("{not-json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSeedWithoutMemoryRepoConflicts(t *testing.T) {
	router := newSeedRouter(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/workforce/seed", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
