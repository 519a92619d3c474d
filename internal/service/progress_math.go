package service

import (
	"math"

	"edubank-server/internal/models"

	"github.com/google/uuid"
)

// roundRate округляет процент прогресса до одного знака после запятой.
func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}

// stepRate вычисляет процент прогресса для шага: normalIndex * 100 / totalNormalSteps,
// обрезанный в [0, 100]. ok == false для шага вне канонической ветки или сценария
// без счетчика шагов - прогресс для них не определен.
func stepRate(step *models.Step, scenario *models.Scenario) (rate float64, ok bool) {
	if step.NormalIndex == nil || scenario.TotalNormalSteps == nil {
		return 0, false
	}
	i := *step.NormalIndex
	t := *scenario.TotalNormalSteps
	if i <= 0 || t <= 0 {
		return 0, false
	}
	rate = float64(i) * 100 / float64(t)
	if rate > 100 {
		rate = 100
	}
	return roundRate(rate), true
}

// nextProgressValue возвращает новое значение прогресса после перехода на targetID.
// Чистая функция: prev не мутируется, новая запись вычисляется целиком и потом
// персистится. При frozen меняется только позиция. Иначе сохраненный процент
// заменяется только на max(сохраненный, вычисленный) - прогресс монотонен.
func nextProgressValue(
	prev *models.ScenarioProgress,
	userID uuid.UUID,
	scenario *models.Scenario,
	targetID uuid.UUID,
	target *models.Step,
	frozen bool,
) models.ScenarioProgress {
	next := models.ScenarioProgress{
		UserID:        userID,
		ScenarioID:    scenario.ID,
		CurrentStepID: targetID,
	}
	if prev != nil {
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
		next.ProgressRate = prev.ProgressRate
	}
	if frozen || target == nil {
		return next
	}
	if rate, ok := stepRate(target, scenario); ok && rate > next.ProgressRate {
		next.ProgressRate = rate
	}
	return next
}
