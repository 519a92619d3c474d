package repository

import (
	"context"
	"errors"

	"edubank-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ScenarioRepository = (*pgScenarioRepository)(nil)

type pgScenarioRepository struct {
	logger *zap.Logger
}

// NewPgScenarioRepository creates a new repository instance.
func NewPgScenarioRepository(logger *zap.Logger) ScenarioRepository {
	return &pgScenarioRepository{logger: logger.Named("PgScenarioRepo")}
}

const getScenarioByIDQuery = `
SELECT id, title, total_normal_steps, created_at
FROM scenarios
WHERE id = $1`

const listScenariosQuery = `
SELECT id, title, total_normal_steps, created_at
FROM scenarios
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

func (r *pgScenarioRepository) GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Scenario, error) {
	scenario := &models.Scenario{}
	err := q.QueryRow(ctx, getScenarioByIDQuery, id).Scan(
		&scenario.ID,
		&scenario.Title,
		&scenario.TotalNormalSteps,
		&scenario.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrScenarioNotFound
		}
		r.logger.Error("Failed to get scenario", zap.Stringer("scenarioID", id), zap.Error(err))
		return nil, err
	}
	return scenario, nil
}

func (r *pgScenarioRepository) List(ctx context.Context, q DBTX, limit, offset int) ([]*models.Scenario, error) {
	var scenarios []*models.Scenario
	if err := pgxscan.Select(ctx, q, &scenarios, listScenariosQuery, limit, offset); err != nil {
		r.logger.Error("Failed to list scenarios", zap.Error(err))
		return nil, err
	}
	return scenarios, nil
}
