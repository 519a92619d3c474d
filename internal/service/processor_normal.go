package service

import (
	"context"

	"edubank-server/internal/models"
)

// normalProcessor - линейное продвижение по канонической ветке.
type normalProcessor struct{}

var _ stepProcessor = normalProcessor{}

func (normalProcessor) Process(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error) {
	if sc.Current.NextStepID == nil {
		// Конец канонической ветки - завершение сценария.
		if err := ops.complete(ctx, sc); err != nil {
			return nil, err
		}
		return &models.AdvanceResult{Status: models.StatusCompleted}, nil
	}

	next, ok := sc.Steps[*sc.Current.NextStepID]
	if !ok {
		return nil, models.ErrStepNotFound
	}
	if err := ops.moveUnfrozen(ctx, sc, next); err != nil {
		return nil, err
	}
	return &models.AdvanceResult{Status: models.StatusAdvanced, Step: next}, nil
}
