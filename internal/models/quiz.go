package models

import "github.com/google/uuid"

// Quiz - вопрос, «запирающий» переход с шага. Один квиз может использоваться
// несколькими шагами; у шага не больше одного квиза.
type Quiz struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Question string    `db:"question" json:"question"`
	Options  []string  `db:"options" json:"options"`
	// CorrectIndex - индекс правильного варианта (с нуля). Никогда не отдается клиенту.
	CorrectIndex int `db:"correct_index" json:"-"`
}
