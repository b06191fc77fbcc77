package workforce

import "context"

// Repo provides read access to the operational entities a detection pass scans.
type Repo interface {
	ListJobs(ctx context.Context) ([]Job, error)
	ListShifts(ctx context.Context) ([]Shift, error)
	ListPayments(ctx context.Context) ([]Payment, error)
	ListComplianceRecords(ctx context.Context) ([]ComplianceRecord, error)
}
