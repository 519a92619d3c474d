package service

import (
	"context"

	"edubank-server/internal/models"
)

// quizGateProcessor - шаг, закрытый квизом: переход разрешен только после
// правильного ответа.
type quizGateProcessor struct{}

var _ stepProcessor = quizGateProcessor{}

func (quizGateProcessor) Process(ctx context.Context, sc *stepContext, ops progressOps) (*models.AdvanceResult, error) {
	if sc.Current.QuizID == nil {
		// Защитный фолбэк: без квиза шаг ведет себя как обычный.
		return normalProcessor{}.Process(ctx, sc, ops)
	}

	quiz, err := ops.quizByID(ctx, *sc.Current.QuizID)
	if err != nil {
		return nil, err
	}

	if sc.Answer == nil {
		return &models.AdvanceResult{Status: models.StatusQuizRequired, Step: sc.Current, Quiz: quiz}, nil
	}
	if *sc.Answer != quiz.CorrectIndex {
		// Неверный (в том числе вне диапазона) ответ: позиция и прогресс не меняются.
		return &models.AdvanceResult{Status: models.StatusQuizWrong, Step: sc.Current, Quiz: quiz}, nil
	}

	// Правильный ответ открывает обычный переход.
	return normalProcessor{}.Process(ctx, sc, ops)
}
