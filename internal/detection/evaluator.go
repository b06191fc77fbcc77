package detection

import "time"

// Evaluator is one deterministic, side-effect-free detection rule.
type Evaluator interface {
	Name() string
	Evaluate(snap Context, now time.Time) []Finding
}

// DefaultEvaluators returns the full rule battery in a stable order.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		UnderstaffingEvaluator{},
		SchedulingConflictEvaluator{},
		PaymentDelayEvaluator{},
		ComplianceBreachEvaluator{},
		ResourceShortageEvaluator{},
	}
}

func ageInDays(now, createdAt time.Time) float64 {
	return now.Sub(createdAt).Hours() / 24
}
