package service

import (
	"context"

	"edubank-server/internal/models"

	"github.com/google/uuid"
)

// badBranchProcessor обрабатывает шаги, уже помеченные как плохая ветка или
// плохая концовка - пользователь свернул на ветку на одном из прошлых ходов.
type badBranchProcessor struct{}

var _ stepProcessor = badBranchProcessor{}

func (badBranchProcessor) Process(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error) {
	if sc.BadEnding {
		return processBadEnding(ctx, sc, ops)
	}

	// Плохая ветка без концовки: движемся дальше по ветке с замороженным прогрессом.
	if sc.Current.NextStepID != nil {
		next, ok := sc.Steps[*sc.Current.NextStepID]
		if !ok {
			return nil, models.ErrStepNotFound
		}
		if err := ops.moveFrozen(ctx, sc, next.ID); err != nil {
			return nil, err
		}
		return &models.AdvanceResult{Status: models.StatusAdvancedFrozen, Step: next}, nil
	}

	// Ветка оборвалась без явной концовки - считаем ее неявной концовкой,
	// чтобы пользователь не застрял.
	return processBadEnding(ctx, sc, ops)
}

// processBadEnding переносит пользователя в точку возврата (next концовки или старт
// сценария) с замороженным прогрессом. Ответ несет ТЕКУЩИЙ шаг: клиент показывает
// экран концовки, а точку возврата получит следующим resume.
func processBadEnding(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error) {
	returnID := uuid.Nil
	switch {
	case sc.Current.NextStepID != nil:
		returnID = *sc.Current.NextStepID
	case sc.StartStepID != uuid.Nil:
		returnID = sc.StartStepID
	default:
		return nil, models.ErrNoReturnPoint
	}

	if _, ok := sc.Steps[returnID]; !ok {
		return nil, models.ErrStepNotFound
	}
	if err := ops.moveFrozen(ctx, sc, returnID); err != nil {
		return nil, err
	}
	return &models.AdvanceResult{Status: models.StatusBadEnding, Step: sc.Current}, nil
}
