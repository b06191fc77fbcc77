package detection

import (
	"strings"
	"time"

	"workforce-backend/internal/workforce"
)

// Issue types.
const (
	IssueTypeUnderstaffing      = "understaffing"
	IssueTypeSchedulingConflict = "scheduling_conflict"
	IssueTypePaymentDelay       = "payment_delay"
	IssueTypeComplianceBreach   = "compliance_breach"
	IssueTypeResourceShortage   = "resource_shortage"
	IssueTypeSkillGap           = "skill_gap"
	IssueTypePerformanceIssue   = "performance_issue"
	IssueTypeBudgetOverrun      = "budget_overrun"
	IssueTypeSafetyConcern      = "safety_concern"
	IssueTypeOther              = "other"
)

// Severities, ordered critical > high > medium > low for display.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert statuses.
const (
	StatusActive       = "active"
	StatusAcknowledged = "acknowledged"
	StatusResolved     = "resolved"
	StatusDismissed    = "dismissed"
)

// Detection methods.
const (
	MethodRuleBased = "rule_based"
	MethodAIPowered = "ai_powered"
)

// Alert is a persisted record describing one detected operational issue.
type Alert struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	IssueType          string         `json:"issueType"`
	Severity           string         `json:"severity"`
	Status             string         `json:"status"`
	Confidence         int            `json:"confidence"`
	AffectedModule     string         `json:"affectedModule"`
	AffectedEntityType string         `json:"affectedEntityType"`
	AffectedEntityID   string         `json:"affectedEntityId"`
	DetectionMethod    string         `json:"detectionMethod"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Recommendation is a suggested remediation tied to an alert.
type Recommendation struct {
	ID                   string         `json:"id"`
	AlertID              string         `json:"alertId"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	RecommendationType   string         `json:"recommendationType"`
	Priority             int            `json:"priority"`
	Confidence           int            `json:"confidence"`
	EstimatedImpact      string         `json:"estimatedImpact"`
	RequiredCapabilities []string       `json:"requiredCapabilities"`
	Automatable          bool           `json:"automatable"`
	ActionMetadata       map[string]any `json:"actionMetadata,omitempty"`
	EstimatedDuration    int            `json:"estimatedDurationMinutes"`
	CreatedAt            time.Time      `json:"createdAt"`
}

// Action is the audit record of an executed remediation. The executor itself
// lives outside this core.
type Action struct {
	ID               string    `json:"id"`
	AlertID          string    `json:"alertId"`
	RecommendationID string    `json:"recommendationId,omitempty"`
	ActionType       string    `json:"actionType"`
	ExecutedBy       string    `json:"executedBy"`
	Result           string    `json:"result"`
	Notes            string    `json:"notes"`
	ExecutedAt       time.Time `json:"executedAt"`
}

// AlertDraft is a detector's alert before ids and timestamps are assigned.
type AlertDraft struct {
	Title              string
	Description        string
	IssueType          string
	Severity           string
	Confidence         int
	AffectedModule     string
	AffectedEntityType string
	AffectedEntityID   string
	DetectionMethod    string
	Metadata           map[string]any
}

// RecommendationDraft is a detector's recommendation before persistence.
type RecommendationDraft struct {
	Title                string
	Description          string
	RecommendationType   string
	Priority             int
	Confidence           int
	EstimatedImpact      string
	RequiredCapabilities []string
	Automatable          bool
	ActionMetadata       map[string]any
	EstimatedDuration    int
}

// Finding pairs an alert draft with its recommendations.
type Finding struct {
	Alert           AlertDraft
	Recommendations []RecommendationDraft
}

// Context is the read-only snapshot one detection pass operates on.
type Context struct {
	Jobs              []workforce.Job
	Shifts            []workforce.Shift
	Payments          []workforce.Payment
	ComplianceRecords []workforce.ComplianceRecord
	LoadedAt          time.Time
}

// NormalizeIssueType maps unknown issue type strings to "other".
func NormalizeIssueType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case IssueTypeUnderstaffing, IssueTypeSchedulingConflict, IssueTypePaymentDelay,
		IssueTypeComplianceBreach, IssueTypeResourceShortage, IssueTypeSkillGap,
		IssueTypePerformanceIssue, IssueTypeBudgetOverrun, IssueTypeSafetyConcern:
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return IssueTypeOther
	}
}

// NormalizeSeverity maps unknown severity strings to "low".
func NormalizeSeverity(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SeverityRank orders severities for display, higher is more severe.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ValidStatus reports whether the given alert status is one of the lifecycle states.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusAcknowledged, StatusResolved, StatusDismissed:
		return true
	default:
		return false
	}
}

// ClampConfidence bounds a confidence score to [0,100].
func ClampConfidence(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
