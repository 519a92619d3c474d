package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StepType определяет тип контента шага.
type StepType string

const (
	StepTypeDialog  StepType = "DIALOG"
	StepTypeChoice  StepType = "CHOICE"
	StepTypeOverlay StepType = "OVERLAY"
	StepTypeModal   StepType = "MODAL"
	StepTypeImage   StepType = "IMAGE"
)

// Step - один шаг сценария. Граф шагов не гарантированно ацикличен:
// движок валидирует переходы по одному (lookup в карте шагов), а не глобально.
type Step struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ScenarioID uuid.UUID       `db:"scenario_id" json:"scenarioId"`
	Type       StepType        `db:"type" json:"type"`
	Content    json.RawMessage `db:"content" json:"content"`
	// NextStepID - переход по умолчанию. nil на терминальном шаге.
	NextStepID *uuid.UUID `db:"next_step_id" json:"nextStepId,omitempty"`
	QuizID     *uuid.UUID `db:"quiz_id" json:"quizId,omitempty"`
	// NormalIndex - позиция (с 1) на каноническом пути. nil = шаг вне счастливого пути
	// (плохая ветка, тренировочный контент и т.п.), прогресс по нему не считается.
	NormalIndex *int `db:"normal_index" json:"normalIndex,omitempty"`
}
