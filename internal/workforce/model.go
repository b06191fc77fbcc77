package workforce

import "time"

// Job statuses.
const (
	JobStatusActive = "active"
	JobStatusFilled = "filled"
	JobStatusClosed = "closed"
)

// Shift statuses.
const (
	ShiftStatusDraft     = "draft"
	ShiftStatusPublished = "published"
	ShiftStatusCancelled = "cancelled"
	ShiftStatusCompleted = "completed"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Compliance record statuses.
const (
	ComplianceStatusCompliant    = "compliant"
	ComplianceStatusAtRisk       = "at_risk"
	ComplianceStatusNonCompliant = "non_compliant"
)

// Job represents an open or filled position.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	RequiredSkills []string  `json:"requiredSkills"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Shift represents a scheduled block of work, optionally assigned to a worker.
type Shift struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	WorkerID  string    `json:"workerId"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// Assigned reports whether a worker is attached to the shift.
func (s Shift) Assigned() bool {
	return s.WorkerID != ""
}

// Payment represents money owed to a worker for completed work.
type Payment struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"workerId"`
	JobID     string    `json:"jobId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ComplianceRecord tracks a regulatory or policy requirement for an entity.
type ComplianceRecord struct {
	ID          string     `json:"id"`
	SubjectType string     `json:"subjectType"`
	SubjectID   string     `json:"subjectId"`
	Requirement string     `json:"requirement"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
