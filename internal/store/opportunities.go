// Package store persists content opportunities and caches analysis results.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
)

// ErrIllegalTransition is returned when a status update would violate the
// pending -> selected/rejected lifecycle.
var ErrIllegalTransition = fmt.Errorf("illegal opportunity status transition")

// ErrNotFound is returned when no opportunity matches the given id.
var ErrNotFound = sql.ErrNoRows

// OpportunityStore persists ranked opportunities in Postgres. Ranking and
// filtering never delete rows; rejected opportunities stay in storage.
type OpportunityStore struct {
	db  *sql.DB
	log logger.Logger
}

func NewOpportunityStore(db *sql.DB, log logger.Logger) *OpportunityStore {
	return &OpportunityStore{db: db, log: log}
}

// ON CONFLICT keeps a duplicate id from aborting the surrounding
// transaction and sinking the rest of the batch.
const insertOpportunityQuery = `
	INSERT INTO content_opportunities
		(id, trend_topic, suggested_angle, estimated_production_cost,
		 estimated_roi, priority_score, overall_score, status,
		 trend_collected_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO NOTHING`

// Insert stores a batch of opportunities in one transaction. Duplicate ids
// are skipped, not treated as errors.
func (s *OpportunityStore) Insert(ctx context.Context, opportunities []models.ContentOpportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, opp := range opportunities {
		res, err := tx.ExecContext(ctx, insertOpportunityQuery,
			opp.ID, opp.TrendTopic, opp.SuggestedAngle,
			opp.EstimatedProductionCost, opp.EstimatedROI,
			opp.PriorityScore, opp.OverallScore, string(opp.Status),
			opp.TrendCollectedAt, opp.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert opportunity %s: %w", opp.ID, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			s.log.Warn("duplicate opportunity id, skipping insert", map[string]interface{}{
				"id": opp.ID,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit opportunity batch: %w", err)
	}
	return nil
}

const listOpportunitiesQuery = `
	SELECT id, trend_topic, suggested_angle, estimated_production_cost,
	       estimated_roi, priority_score, overall_score, status,
	       trend_collected_at, created_at
	FROM content_opportunities
	WHERE ($1 = '' OR status = $1)
	ORDER BY priority_score DESC, estimated_roi DESC, trend_collected_at DESC, id ASC
	LIMIT $2`

// List returns stored opportunities, optionally filtered by status, in the
// same order the ranker would produce.
func (s *OpportunityStore) List(ctx context.Context, status models.OpportunityStatus, limit int) ([]models.ContentOpportunity, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, listOpportunitiesQuery, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.ContentOpportunity
	for rows.Next() {
		var opp models.ContentOpportunity
		var st string
		if err := rows.Scan(
			&opp.ID, &opp.TrendTopic, &opp.SuggestedAngle,
			&opp.EstimatedProductionCost, &opp.EstimatedROI,
			&opp.PriorityScore, &opp.OverallScore, &st,
			&opp.TrendCollectedAt, &opp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		opp.Status = models.OpportunityStatus(st)
		out = append(out, opp)
	}
	return out, rows.Err()
}

const getStatusQuery = `SELECT status FROM content_opportunities WHERE id = $1`

const updateStatusQuery = `
	UPDATE content_opportunities SET status = $2 WHERE id = $1`

// UpdateStatus applies a lifecycle transition, enforcing that only pending
// opportunities move, and only to selected or rejected.
func (s *OpportunityStore) UpdateStatus(ctx context.Context, id string, target models.OpportunityStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, target)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	if err := tx.QueryRowContext(ctx, getStatusQuery, id).Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load opportunity %s: %w", id, err)
	}

	if !models.OpportunityStatus(current).CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}

	if _, err := tx.ExecContext(ctx, updateStatusQuery, id, string(target)); err != nil {
		return fmt.Errorf("failed to update opportunity %s: %w", id, err)
	}

	return tx.Commit()
}
