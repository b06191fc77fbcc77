package detection

import "context"

// AlertUpdate carries the fields external collaborators may mutate.
type AlertUpdate struct {
	Status *string
}

// Repo is the durable CRUD contract for alerts, recommendations, and actions.
// An alert and its recommendations are written as one logical unit: a
// recommendation insert is never attempted for an alert insert that failed.
type Repo interface {
	CreateAlertWithRecommendations(ctx context.Context, alert Alert, recs []Recommendation) error
	GetAlert(ctx context.Context, alertID string) (Alert, error)
	ListAlerts(ctx context.Context, status string) ([]Alert, error)
	UpdateAlert(ctx context.Context, alertID string, update AlertUpdate) (Alert, error)
	ListRecommendations(ctx context.Context, alertID string) ([]Recommendation, error)
	CreateAction(ctx context.Context, action Action) error
}
