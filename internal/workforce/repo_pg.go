package workforce

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// ListJobs returns all jobs.
func (r *PGRepo) ListJobs(ctx context.Context) ([]Job, error) {
	const query = `
SELECT id, title, description, status, required_skills, created_at, updated_at
FROM jobs
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var skills sql.NullString
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.Status, &skills, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		if skills.Valid {
			if err := json.Unmarshal([]byte(skills.String), &job.RequiredSkills); err != nil {
				job.RequiredSkills = nil
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListShifts returns all shifts.
func (r *PGRepo) ListShifts(ctx context.Context) ([]Shift, error) {
	const query = `
SELECT id, COALESCE(job_id::text, ''), COALESCE(worker_id::text, ''), status, location, start_time, end_time, created_at
FROM shifts
ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		var shift Shift
		if err := rows.Scan(&shift.ID, &shift.JobID, &shift.WorkerID, &shift.Status, &shift.Location, &shift.StartTime, &shift.EndTime, &shift.CreatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// ListPayments returns all payments.
func (r *PGRepo) ListPayments(ctx context.Context) ([]Payment, error) {
	const query = `
SELECT id, COALESCE(worker_id::text, ''), COALESCE(job_id::text, ''), amount, currency, status, created_at
FROM payments
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var payment Payment
		if err := rows.Scan(&payment.ID, &payment.WorkerID, &payment.JobID, &payment.Amount, &payment.Currency, &payment.Status, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// ListComplianceRecords returns all compliance records.
func (r *PGRepo) ListComplianceRecords(ctx context.Context) ([]ComplianceRecord, error) {
	const query = `
SELECT id, subject_type, COALESCE(subject_id::text, ''), requirement, status, expires_at, updated_at
FROM compliance_records
ORDER BY updated_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ComplianceRecord
	for rows.Next() {
		var record ComplianceRecord
		var expiresAt sql.NullTime
		if err := rows.Scan(&record.ID, &record.SubjectType, &record.SubjectID, &record.Requirement, &record.Status, &expiresAt, &record.UpdatedAt); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			record.ExpiresAt = &expiresAt.Time
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
