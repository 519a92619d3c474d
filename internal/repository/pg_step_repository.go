package repository

import (
	"context"

	"edubank-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ StepRepository = (*pgStepRepository)(nil)

type pgStepRepository struct {
	logger *zap.Logger
}

// NewPgStepRepository creates a new repository instance.
func NewPgStepRepository(logger *zap.Logger) StepRepository {
	return &pgStepRepository{logger: logger.Named("PgStepRepo")}
}

const listStepsByScenarioQuery = `
SELECT id, scenario_id, type, content, next_step_id, quiz_id, normal_index
FROM steps
WHERE scenario_id = $1
ORDER BY normal_index NULLS LAST, id`

// ListByScenarioID загружает все шаги сценария за один запрос.
// Пустой результат не является ошибкой - семантику пустого сценария решает сервис.
func (r *pgStepRepository) ListByScenarioID(ctx context.Context, q DBTX, scenarioID uuid.UUID) ([]*models.Step, error) {
	var steps []*models.Step
	if err := pgxscan.Select(ctx, q, &steps, listStepsByScenarioQuery, scenarioID); err != nil {
		r.logger.Error("Failed to list steps", zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return nil, err
	}
	return steps, nil
}
