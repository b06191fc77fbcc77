package detection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateAlertWithRecommendations inserts the alert and its recommendations in
// one transaction.
func (r *PGRepo) CreateAlertWithRecommendations(ctx context.Context, alert Alert, recs []Recommendation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const alertQuery = `
INSERT INTO issue_alerts (
	id, title, description, issue_type, severity, status, confidence,
	affected_module, affected_entity_type, affected_entity_id, detection_method,
	metadata, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	metadata, err := marshalJSONB(alert.Metadata)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, alertQuery,
		alert.ID,
		alert.Title,
		alert.Description,
		alert.IssueType,
		alert.Severity,
		alert.Status,
		alert.Confidence,
		alert.AffectedModule,
		alert.AffectedEntityType,
		alert.AffectedEntityID,
		alert.DetectionMethod,
		metadata,
		alert.CreatedAt,
		alert.UpdatedAt,
	); err != nil {
		return err
	}

	const recQuery = `
INSERT INTO issue_recommendations (
	id, alert_id, title, description, recommendation_type, priority, confidence,
	estimated_impact, required_capabilities, automatable, action_metadata,
	estimated_duration_minutes, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for _, rec := range recs {
		capabilities, err := json.Marshal(rec.RequiredCapabilities)
		if err != nil {
			return err
		}
		actionMetadata, err := marshalJSONB(rec.ActionMetadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, recQuery,
			rec.ID,
			rec.AlertID,
			rec.Title,
			rec.Description,
			rec.RecommendationType,
			rec.Priority,
			rec.Confidence,
			rec.EstimatedImpact,
			string(capabilities),
			rec.Automatable,
			actionMetadata,
			rec.EstimatedDuration,
			rec.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const alertColumns = `
id, title, description, issue_type, severity, status, confidence,
affected_module, affected_entity_type, affected_entity_id, detection_method,
metadata, created_at, updated_at`

// GetAlert returns an alert by id.
func (r *PGRepo) GetAlert(ctx context.Context, alertID string) (Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM issue_alerts WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, alertID)
	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Alert{}, ErrNotFound
		}
		return Alert{}, err
	}
	return alert, nil
}

// ListAlerts returns alerts, optionally filtered by status, most severe and
// newest first.
func (r *PGRepo) ListAlerts(ctx context.Context, status string) ([]Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM issue_alerts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += `
ORDER BY CASE severity
	WHEN 'critical' THEN 4
	WHEN 'high' THEN 3
	WHEN 'medium' THEN 2
	ELSE 1
END DESC, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// UpdateAlert applies a partial update and returns the updated alert.
func (r *PGRepo) UpdateAlert(ctx context.Context, alertID string, update AlertUpdate) (Alert, error) {
	if update.Status != nil {
		const query = `UPDATE issue_alerts SET status = $2, updated_at = $3 WHERE id = $1`
		result, err := r.DB.ExecContext(ctx, query, alertID, *update.Status, time.Now().UTC())
		if err != nil {
			return Alert{}, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return Alert{}, err
		}
		if affected == 0 {
			return Alert{}, ErrNotFound
		}
	}
	return r.GetAlert(ctx, alertID)
}

// ListRecommendations returns an alert's recommendations ordered by priority.
func (r *PGRepo) ListRecommendations(ctx context.Context, alertID string) ([]Recommendation, error) {
	const query = `
SELECT id, alert_id, title, description, recommendation_type, priority, confidence,
       estimated_impact, required_capabilities, automatable, action_metadata,
       estimated_duration_minutes, created_at
FROM issue_recommendations
WHERE alert_id = $1
ORDER BY priority, created_at`
	rows, err := r.DB.QueryContext(ctx, query, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		var capabilities sql.NullString
		var actionMetadata sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.AlertID,
			&rec.Title,
			&rec.Description,
			&rec.RecommendationType,
			&rec.Priority,
			&rec.Confidence,
			&rec.EstimatedImpact,
			&capabilities,
			&rec.Automatable,
			&actionMetadata,
			&rec.EstimatedDuration,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if capabilities.Valid {
			if err := json.Unmarshal([]byte(capabilities.String), &rec.RequiredCapabilities); err != nil {
				rec.RequiredCapabilities = nil
			}
		}
		if actionMetadata.Valid {
			rec.ActionMetadata = map[string]any{}
			if err := json.Unmarshal([]byte(actionMetadata.String), &rec.ActionMetadata); err != nil {
				rec.ActionMetadata = nil
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CreateAction inserts an executed-remediation audit record.
func (r *PGRepo) CreateAction(ctx context.Context, action Action) error {
	const query = `
INSERT INTO issue_actions (id, alert_id, recommendation_id, action_type, executed_by, result, notes, executed_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		action.ID,
		action.AlertID,
		action.RecommendationID,
		action.ActionType,
		action.ExecutedBy,
		action.Result,
		action.Notes,
		action.ExecutedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (Alert, error) {
	var alert Alert
	var metadata sql.NullString
	if err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Description,
		&alert.IssueType,
		&alert.Severity,
		&alert.Status,
		&alert.Confidence,
		&alert.AffectedModule,
		&alert.AffectedEntityType,
		&alert.AffectedEntityID,
		&alert.DetectionMethod,
		&metadata,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	); err != nil {
		return Alert{}, err
	}
	if metadata.Valid {
		alert.Metadata = map[string]any{}
		if err := json.Unmarshal([]byte(metadata.String), &alert.Metadata); err != nil {
			alert.Metadata = nil
		}
	}
	return alert, nil
}

func marshalJSONB(value map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

var _ Repo = (*PGRepo)(nil)
