package detection

import (
	"context"
	"fmt"
	"time"

	"workforce-backend/internal/shared/telemetry"
	"workforce-backend/internal/workforce"
)

// Loader builds the read-only snapshot for one detection pass.
type Loader struct {
	Workforce workforce.Repo
}

// Load assembles a Context from current state. A failed collection degrades
// to empty; if every collection fails the load is aborted with ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context) (Context, error) {
	snap := Context{LoadedAt: time.Now().UTC()}
	failures := 0

	jobs, err := l.Workforce.ListJobs(ctx)
	if err != nil {
		telemetry.Warn("detection.load.partial", map[string]any{"collection": "jobs", "error": err.Error()})
		failures++
	} else {
		snap.Jobs = jobs
	}

	shifts, err := l.Workforce.ListShifts(ctx)
	if err != nil {
		telemetry.Warn("detection.load.partial", map[string]any{"collection": "shifts", "error": err.Error()})
		failures++
	} else {
		snap.Shifts = shifts
	}

	payments, err := l.Workforce.ListPayments(ctx)
	if err != nil {
		telemetry.Warn("detection.load.partial", map[string]any{"collection": "payments", "error": err.Error()})
		failures++
	} else {
		snap.Payments = payments
	}

	records, err := l.Workforce.ListComplianceRecords(ctx)
	if err != nil {
		telemetry.Warn("detection.load.partial", map[string]any{"collection": "compliance_records", "error": err.Error()})
		failures++
	} else {
		snap.ComplianceRecords = records
	}

	if failures == 4 {
		return Context{}, fmt.Errorf("%w: all collections failed to load", ErrDataUnavailable)
	}
	return snap, nil
}
