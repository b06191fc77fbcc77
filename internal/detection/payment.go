package detection

import (
	"fmt"
	"time"

	"workforce-backend/internal/workforce"
)

// PaymentDelayEvaluator escalates pending payments by age.
type PaymentDelayEvaluator struct{}

// Name returns the evaluator name.
func (PaymentDelayEvaluator) Name() string { return "payment_delay" }

// Evaluate maps pending payment age to severity: >30 days critical,
// >14 high, >7 medium, otherwise no alert.
func (PaymentDelayEvaluator) Evaluate(snap Context, now time.Time) []Finding {
	var findings []Finding
	for _, payment := range snap.Payments {
		if payment.Status != workforce.PaymentStatusPending {
			continue
		}
		days := ageInDays(now, payment.CreatedAt)

		var severity string
		switch {
		case days > 30:
			severity = SeverityCritical
		case days > 14:
			severity = SeverityHigh
		case days > 7:
			severity = SeverityMedium
		default:
			continue
		}

		findings = append(findings, Finding{
			Alert: AlertDraft{
				Title:              "Delayed pending payment",
				Description:        fmt.Sprintf("Payment of %.2f %s to worker %s has been pending for %d days.", payment.Amount, payment.Currency, payment.WorkerID, int(days)),
				IssueType:          IssueTypePaymentDelay,
				Severity:           severity,
				Confidence:         100,
				AffectedModule:     "payments",
				AffectedEntityType: "payment",
				AffectedEntityID:   payment.ID,
				DetectionMethod:    MethodRuleBased,
				Metadata: map[string]any{
					"amount":      payment.Amount,
					"currency":    payment.Currency,
					"workerId":    payment.WorkerID,
					"pendingDays": int(days),
				},
			},
			Recommendations: []RecommendationDraft{
				{
					Title:                "Process payment immediately",
					Description:          "Run the payment through the payout pipeline now.",
					RecommendationType:   "process_payment",
					Priority:             1,
					Confidence:           100,
					EstimatedImpact:      "Clears the overdue balance",
					RequiredCapabilities: []string{"payments"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"paymentId": payment.ID},
					EstimatedDuration:    2,
				},
				{
					Title:                "Notify payee of the delay",
					Description:          "Send the worker a status update with the expected payout date.",
					RecommendationType:   "notify_payee",
					Priority:             2,
					Confidence:           100,
					EstimatedImpact:      "Reduces support load from payout inquiries",
					RequiredCapabilities: []string{"notifications"},
					Automatable:          true,
					ActionMetadata:       map[string]any{"paymentId": payment.ID, "workerId": payment.WorkerID},
					EstimatedDuration:    2,
				},
			},
		})
	}
	return findings
}
