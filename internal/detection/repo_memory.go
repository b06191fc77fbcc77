package detection

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores alerts in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	alerts  map[string]Alert
	recs    map[string][]Recommendation
	actions map[string][]Action
	order   []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		alerts:  make(map[string]Alert),
		recs:    make(map[string][]Recommendation),
		actions: make(map[string][]Action),
	}
}

// CreateAlertWithRecommendations stores the alert and its recommendations
// as one unit.
func (r *MemoryRepo) CreateAlertWithRecommendations(ctx context.Context, alert Alert, recs []Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alert.ID] = alert
	r.recs[alert.ID] = append([]Recommendation(nil), recs...)
	r.order = append(r.order, alert.ID)
	return nil
}

// GetAlert returns an alert by id.
func (r *MemoryRepo) GetAlert(ctx context.Context, alertID string) (Alert, error) {
	if err := ctx.Err(); err != nil {
		return Alert{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return Alert{}, ErrNotFound
	}
	return alert, nil
}

// ListAlerts returns alerts, optionally filtered by status, most severe and
// newest first.
func (r *MemoryRepo) ListAlerts(ctx context.Context, status string) ([]Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	alerts := make([]Alert, 0, len(r.order))
	for _, id := range r.order {
		alert := r.alerts[id]
		if status != "" && alert.Status != status {
			continue
		}
		alerts = append(alerts, alert)
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if SeverityRank(alerts[i].Severity) != SeverityRank(alerts[j].Severity) {
			return SeverityRank(alerts[i].Severity) > SeverityRank(alerts[j].Severity)
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// UpdateAlert applies a partial update and returns the updated alert.
func (r *MemoryRepo) UpdateAlert(ctx context.Context, alertID string, update AlertUpdate) (Alert, error) {
	if err := ctx.Err(); err != nil {
		return Alert{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return Alert{}, ErrNotFound
	}
	if update.Status != nil {
		alert.Status = *update.Status
	}
	alert.UpdatedAt = time.Now().UTC()
	r.alerts[alertID] = alert
	return alert, nil
}

// ListRecommendations returns an alert's recommendations ordered by priority.
func (r *MemoryRepo) ListRecommendations(ctx context.Context, alertID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := append([]Recommendation(nil), r.recs[alertID]...)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs, nil
}

// CreateAction stores an executed-remediation audit record.
func (r *MemoryRepo) CreateAction(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[action.AlertID]; !ok {
		return ErrNotFound
	}
	r.actions[action.AlertID] = append(r.actions[action.AlertID], action)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
