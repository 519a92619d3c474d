package models

import (
	"time"

	"github.com/google/uuid"
)

// Scenario - опубликованный обучающий сценарий (ветвящийся граф шагов).
// Неизменяем после авторинга; авторинг вне зоны ответственности сервиса.
type Scenario struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Title string    `db:"title" json:"title"`
	// TotalNormalSteps - количество шагов на каноническом ("счастливом") пути.
	// nil или 0 означает, что прогресс для сценария не определен.
	TotalNormalSteps *int      `db:"total_normal_steps" json:"totalNormalSteps,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// ScenarioOverview - сценарий вместе с прогрессом конкретного пользователя (для каталога).
type ScenarioOverview struct {
	Scenario     *Scenario `json:"scenario"`
	ProgressRate float64   `json:"progressRate"`
	Completed    bool      `json:"completed"`
}
