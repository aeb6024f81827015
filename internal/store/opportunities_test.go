// internal/store/opportunities_test.go
package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func sampleOpportunity(id string) models.ContentOpportunity {
	return models.ContentOpportunity{
		ID:                      id,
		TrendTopic:              "AI Tools 2024",
		SuggestedAngle:          "Hands-On Review",
		EstimatedProductionCost: 1.5,
		EstimatedROI:            28.3,
		PriorityScore:           8.1,
		OverallScore:            7.0,
		Status:                  models.StatusPending,
		TrendCollectedAt:        time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		CreatedAt:               time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
	}
}

func TestInsert_BatchCommitsInOneTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO content_opportunities").
		WithArgs("opp-1", "AI Tools 2024", "Hands-On Review", 1.5, 28.3, 8.1, 7.0, "pending",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO content_opportunities").
		WithArgs("opp-2", "AI Tools 2024", "Hands-On Review", 1.5, 28.3, 8.1, 7.0, "pending",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Insert(context.Background(), []models.ContentOpportunity{
		sampleOpportunity("opp-1"),
		sampleOpportunity("opp-2"),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateIDSkippedBatchStillCommits(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	// The conflicting row reports zero rows affected; the insert statement
	// itself does not error, so the transaction stays usable.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO content_opportunities").
		WithArgs("opp-dup", "AI Tools 2024", "Hands-On Review", 1.5, 28.3, 8.1, 7.0, "pending",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO content_opportunities").
		WithArgs("opp-2", "AI Tools 2024", "Hands-On Review", 1.5, 28.3, 8.1, 7.0, "pending",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Insert(context.Background(), []models.ContentOpportunity{
		sampleOpportunity("opp-dup"),
		sampleOpportunity("opp-2"),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_EmptyBatchIsNoOp(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Insert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_FiltersByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	rows := sqlmock.NewRows([]string{
		"id", "trend_topic", "suggested_angle", "estimated_production_cost",
		"estimated_roi", "priority_score", "overall_score", "status",
		"trend_collected_at", "created_at",
	}).AddRow(
		"opp-1", "AI Tools 2024", "Hands-On Review", 1.5, 28.3, 8.1, 7.0,
		"pending", time.Now(), time.Now(),
	)

	mock.ExpectQuery("SELECT id, trend_topic").
		WithArgs("pending", 50).
		WillReturnRows(rows)

	out, err := store.List(context.Background(), models.StatusPending, 50)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "opp-1", out[0].ID)
	assert.Equal(t, models.StatusPending, out[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM content_opportunities").
		WithArgs("opp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec("UPDATE content_opportunities SET status").
		WithArgs("opp-1", "selected").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpdateStatus(context.Background(), "opp-1", models.StatusSelected)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM content_opportunities").
		WithArgs("opp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("selected"))
	mock.ExpectRollback()

	err := store.UpdateStatus(context.Background(), "opp-1", models.StatusRejected)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatus_UnknownStatusRejectedWithoutQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	err := store.UpdateStatus(context.Background(), "opp-1", models.OpportunityStatus("archived"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	store := NewOpportunityStore(db, logger.NewTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM content_opportunities").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.UpdateStatus(context.Background(), "missing", models.StatusSelected)
	assert.ErrorIs(t, err, ErrNotFound)
}
