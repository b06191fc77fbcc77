package workforce

import (
	"context"
	"sync"
)

// MemoryRepo stores workforce entities in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	jobs       []Job
	shifts     []Shift
	payments   []Payment
	compliance []ComplianceRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Snapshot replaces all collections at once. Used by dev seeding and tests.
type Snapshot struct {
	Jobs              []Job              `json:"jobs"`
	Shifts            []Shift            `json:"shifts"`
	Payments          []Payment          `json:"payments"`
	ComplianceRecords []ComplianceRecord `json:"complianceRecords"`
}

// Replace swaps the stored collections for the given snapshot.
func (r *MemoryRepo) Replace(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append([]Job(nil), snap.Jobs...)
	r.shifts = append([]Shift(nil), snap.Shifts...)
	r.payments = append([]Payment(nil), snap.Payments...)
	r.compliance = append([]ComplianceRecord(nil), snap.ComplianceRecords...)
}

// AddJob appends a job.
func (r *MemoryRepo) AddJob(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

// AddShift appends a shift.
func (r *MemoryRepo) AddShift(shift Shift) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts = append(r.shifts, shift)
}

// AddPayment appends a payment.
func (r *MemoryRepo) AddPayment(payment Payment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, payment)
}

// AddComplianceRecord appends a compliance record.
func (r *MemoryRepo) AddComplianceRecord(record ComplianceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compliance = append(r.compliance, record)
}

// ListJobs returns all jobs.
func (r *MemoryRepo) ListJobs(ctx context.Context) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Job(nil), r.jobs...), nil
}

// ListShifts returns all shifts.
func (r *MemoryRepo) ListShifts(ctx context.Context) ([]Shift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Shift(nil), r.shifts...), nil
}

// ListPayments returns all payments.
func (r *MemoryRepo) ListPayments(ctx context.Context) ([]Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Payment(nil), r.payments...), nil
}

// ListComplianceRecords returns all compliance records.
func (r *MemoryRepo) ListComplianceRecords(ctx context.Context) ([]ComplianceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ComplianceRecord(nil), r.compliance...), nil
}

var _ Repo = (*MemoryRepo)(nil)
