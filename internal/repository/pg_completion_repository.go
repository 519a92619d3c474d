package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ CompletionRepository = (*pgCompletionRepository)(nil)

type pgCompletionRepository struct {
	logger *zap.Logger
}

// NewPgCompletionRepository creates a new repository instance.
func NewPgCompletionRepository(logger *zap.Logger) CompletionRepository {
	return &pgCompletionRepository{logger: logger.Named("PgCompletionRepo")}
}

const insertCompletionQuery = `
INSERT INTO scenario_completions (user_id, scenario_id, completed_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, scenario_id) DO NOTHING`

const countCompletionsQuery = `
SELECT COUNT(*) FROM scenario_completions WHERE user_id = $1`

const completionExistsQuery = `
SELECT EXISTS(SELECT 1 FROM scenario_completions WHERE user_id = $1 AND scenario_id = $2)`

// InsertIgnore опирается на PK (user_id, scenario_id): при гонке двух финальных
// advance ровно один инсерт проходит, второй видит RowsAffected() == 0.
func (r *pgCompletionRepository) InsertIgnore(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (bool, error) {
	cmdTag, err := q.Exec(ctx, insertCompletionQuery, userID, scenarioID, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to insert scenario completion",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return false, err
	}
	inserted := cmdTag.RowsAffected() > 0
	if !inserted {
		r.logger.Debug("Scenario completion already recorded",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID))
	}
	return inserted, nil
}

func (r *pgCompletionRepository) CountByUser(ctx context.Context, q DBTX, userID uuid.UUID) (int, error) {
	var count int
	if err := q.QueryRow(ctx, countCompletionsQuery, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count scenario completions", zap.Stringer("userID", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *pgCompletionRepository) Exists(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, completionExistsQuery, userID, scenarioID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check scenario completion",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return false, err
	}
	return exists, nil
}
