package service

import (
	"context"

	"edubank-server/internal/models"

	"github.com/google/uuid"
)

// progressOps - узкий набор операций, доступный процессорам. Реализация привязана
// к транзакции текущего запроса; процессоры сами состояние не трогают.
type progressOps interface {
	// moveUnfrozen переносит позицию на target и пересчитывает прогресс
	// (монотонный максимум по normalIndex).
	moveUnfrozen(ctx context.Context, sc *stepContext, target *models.Step) error
	// moveFrozen переносит позицию на targetID, не меняя прогресс.
	moveFrozen(ctx context.Context, sc *stepContext, targetID uuid.UUID) error
	// complete фиксирует завершение сценария: exactly-once запись, награда,
	// сброс прогресса на старт.
	complete(ctx context.Context, sc *stepContext) error
	quizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
}

// stepProcessor - одно правило перехода состояния.
type stepProcessor interface {
	Process(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error)
}

// resolveProcessor выбирает процессор по приоритету: выбор > плохая ветка > квиз > обычный.
// Выбор проверяется раньше плохой ветки, потому что именно выбор решает,
// попадет ли пользователь в нее.
func resolveProcessor(sc *stepContext) stepProcessor {
	switch {
	case sc.HasChoices:
		return choiceProcessor{}
	case sc.BadBranch || sc.BadEnding:
		return badBranchProcessor{}
	case sc.Current.QuizID != nil:
		return quizGateProcessor{}
	default:
		return normalProcessor{}
	}
}
