package service

import (
	"context"

	"edubank-server/internal/content"
	"edubank-server/internal/models"
)

// choiceProcessor обрабатывает CHOICE-шаг: ветвление по выбранному варианту.
type choiceProcessor struct{}

var _ stepProcessor = choiceProcessor{}

func (choiceProcessor) Process(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error) {
	if sc.Answer == nil {
		// Позиция и прогресс не меняются - клиент должен сначала выбрать.
		return &models.AdvanceResult{Status: models.StatusChoiceRequired, Step: sc.Current}, nil
	}

	options, err := content.Choices(sc.Current.Content)
	if err != nil {
		return nil, err
	}
	if *sc.Answer < 0 || *sc.Answer >= len(options) {
		return nil, models.ErrInvalidAnswer
	}
	option := options[*sc.Answer]

	if !option.Good {
		if option.NextStepID == nil {
			// Плохой вариант без перехода - тупик, плохая концовка на месте.
			return &models.AdvanceResult{Status: models.StatusBadEnding, Step: sc.Current}, nil
		}
		next, ok := sc.Steps[*option.NextStepID]
		if !ok {
			return nil, models.ErrStepNotFound
		}
		if err := ops.moveFrozen(ctx, sc, next.ID); err != nil {
			return nil, err
		}
		return &models.AdvanceResult{Status: models.StatusAdvancedFrozen, Step: next}, nil
	}

	// Хороший вариант: явный next варианта приоритетнее next самого шага.
	nextID := option.NextStepID
	if nextID == nil {
		nextID = sc.Current.NextStepID
	}
	if nextID == nil {
		if err := ops.complete(ctx, sc); err != nil {
			return nil, err
		}
		return &models.AdvanceResult{Status: models.StatusCompleted}, nil
	}

	next, ok := sc.Steps[*nextID]
	if !ok {
		return nil, models.ErrStepNotFound
	}
	if err := ops.moveUnfrozen(ctx, sc, next); err != nil {
		return nil, err
	}
	return &models.AdvanceResult{Status: models.StatusAdvanced, Step: next}, nil
}
