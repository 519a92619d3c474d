package service

import (
	"edubank-server/internal/content"
	"edubank-server/internal/models"

	"github.com/google/uuid"
)

// stepContext - неизменяемый снимок состояния на один запрос: пользователь, сценарий,
// текущий шаг, карта всех шагов, прогресс и заранее вычисленные флаги контента.
type stepContext struct {
	UserID   uuid.UUID
	Scenario *models.Scenario
	Current  *models.Step
	Answer   *int
	Steps    map[uuid.UUID]*models.Step
	// Progress - прогресс пользователя до этого запроса. nil, если записи еще нет.
	Progress *models.ScenarioProgress
	// StartStepID - канонический стартовый шаг сценария. uuid.Nil, если он
	// не выводится из графа (каждый шаг является чьим-то next).
	StartStepID uuid.UUID

	HasChoices bool
	BadBranch  bool
	BadEnding  bool
}

// newStepContext собирает контекст из карты шагов. Шаг вне сценария - ErrStepNotFound,
// шаг с квизом и вариантами выбора одновременно - ErrStepContentConflict (дефект авторинга).
func newStepContext(
	userID uuid.UUID,
	scenario *models.Scenario,
	steps []*models.Step,
	currentStepID uuid.UUID,
	answer *int,
	progress *models.ScenarioProgress,
) (*stepContext, error) {
	if len(steps) == 0 {
		return nil, models.ErrScenarioEmpty
	}

	stepMap := make(map[uuid.UUID]*models.Step, len(steps))
	for _, s := range steps {
		stepMap[s.ID] = s
	}

	current, ok := stepMap[currentStepID]
	if !ok {
		return nil, models.ErrStepNotFound
	}

	info, err := content.Inspect(current.Content)
	if err != nil {
		return nil, err
	}
	if current.QuizID != nil && info.HasChoices {
		return nil, models.ErrStepContentConflict
	}

	return &stepContext{
		UserID:      userID,
		Scenario:    scenario,
		Current:     current,
		Answer:      answer,
		Steps:       stepMap,
		Progress:    progress,
		StartStepID: resolveStartStep(steps),
		HasChoices:  info.HasChoices,
		BadBranch:   info.Meta.Branch == content.BranchBad,
		BadEnding:   info.Meta.BadEnding,
	}, nil
}

// resolveStartStep находит шаг, на который не ссылается next ни одного другого шага.
// При неоднозначности берется наименьший id - детерминированный выбор для любых данных.
func resolveStartStep(steps []*models.Step) uuid.UUID {
	targets := make(map[uuid.UUID]struct{}, len(steps))
	for _, s := range steps {
		if s.NextStepID != nil {
			targets[*s.NextStepID] = struct{}{}
		}
	}

	start := uuid.Nil
	for _, s := range steps {
		if _, isTarget := targets[s.ID]; isTarget {
			continue
		}
		if start == uuid.Nil || s.ID.String() < start.String() {
			start = s.ID
		}
	}
	return start
}
