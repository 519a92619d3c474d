package repository

import (
	"context"
	"errors"
	"time"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ ProgressRepository = (*pgProgressRepository)(nil)

type pgProgressRepository struct {
	logger *zap.Logger
}

// NewPgProgressRepository creates a new repository instance.
func NewPgProgressRepository(logger *zap.Logger) ProgressRepository {
	return &pgProgressRepository{logger: logger.Named("PgProgressRepo")}
}

const getProgressQuery = `
SELECT id, user_id, scenario_id, current_step_id, progress_rate, created_at, updated_at
FROM scenario_progress
WHERE user_id = $1 AND scenario_id = $2`

const upsertProgressQuery = `
INSERT INTO scenario_progress (id, user_id, scenario_id, current_step_id, progress_rate, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (user_id, scenario_id) DO UPDATE SET
    current_step_id = EXCLUDED.current_step_id,
    progress_rate   = EXCLUDED.progress_rate,
    updated_at      = EXCLUDED.updated_at`

func (r *pgProgressRepository) GetByUserAndScenario(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (*models.ScenarioProgress, error) {
	progress := &models.ScenarioProgress{}
	err := q.QueryRow(ctx, getProgressQuery, userID, scenarioID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.ScenarioID,
		&progress.CurrentStepID,
		&progress.ProgressRate,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get scenario progress",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return nil, err
	}
	return progress, nil
}

// Upsert создает или обновляет запись прогресса. Вызывается только внутри
// транзакции advance/checkpoint; новое значение прогресса вычисляет сервис.
func (r *pgProgressRepository) Upsert(ctx context.Context, q DBTX, progress *models.ScenarioProgress) error {
	now := time.Now().UTC()
	progress.UpdatedAt = now
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	_, err := q.Exec(ctx, upsertProgressQuery,
		progress.ID,
		progress.UserID,
		progress.ScenarioID,
		progress.CurrentStepID,
		progress.ProgressRate,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to upsert scenario progress",
			zap.Stringer("userID", progress.UserID), zap.Stringer("scenarioID", progress.ScenarioID), zap.Error(err))
		return err
	}
	r.logger.Debug("Upserted scenario progress",
		zap.Stringer("userID", progress.UserID),
		zap.Stringer("scenarioID", progress.ScenarioID),
		zap.Stringer("currentStepID", progress.CurrentStepID),
		zap.Float64("progressRate", progress.ProgressRate),
	)
	return nil
}
