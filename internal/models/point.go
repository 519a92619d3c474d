package models

import (
	"time"

	"github.com/google/uuid"
)

// Причины начисления баллов.
const (
	PointReasonScenarioReward = "scenario_completion"
)

// PointTransaction - запись в append-only леджере баллов. Баланс = SUM(amount).
type PointTransaction struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"userId"`
	Amount     int        `db:"amount" json:"amount"`
	Reason     string     `db:"reason" json:"reason"`
	ScenarioID *uuid.UUID `db:"scenario_id" json:"scenarioId,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}
