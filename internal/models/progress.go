package models

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioProgress хранит текущую позицию пользователя в сценарии.
// Уникален по (user_id, scenario_id). Создается лениво при первом advance/checkpoint.
// ProgressRate монотонно не убывает, кроме явного сброса в 0 после завершения сценария.
type ScenarioProgress struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	ScenarioID    uuid.UUID `db:"scenario_id" json:"scenarioId"`
	CurrentStepID uuid.UUID `db:"current_step_id" json:"currentStepId"`
	// ProgressRate в диапазоне [0, 100] с точностью в один знак после запятой.
	ProgressRate float64   `db:"progress_rate" json:"progressRate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ScenarioCompletion - факт завершения сценария пользователем. Вставляется ровно один раз
// (insert-or-ignore по уникальности (user_id, scenario_id)); никогда не обновляется и не удаляется.
// Существование записи - единственный источник истины для "пользователь когда-либо завершал сценарий".
type ScenarioCompletion struct {
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	ScenarioID  uuid.UUID `db:"scenario_id" json:"scenarioId"`
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}
