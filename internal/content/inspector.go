package content

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// BranchBad - значение meta.branch, помечающее шаг как часть плохой ветки.
const BranchBad = "bad"

// Meta - служебные метаданные шага внутри контента.
type Meta struct {
	Branch    string `json:"branch,omitempty"`
	BadEnding bool   `json:"badEnding,omitempty"`
}

// ChoiceOption - один вариант выбора на CHOICE-шаге.
type ChoiceOption struct {
	Text string `json:"text"`
	Good bool   `json:"good"`
	// NextStepID - явный переход для этого варианта. nil = использовать next самого шага
	// (для плохого варианта nil означает тупик - плохую концовку на месте).
	NextStepID *uuid.UUID `json:"next,omitempty"`
}

// Info - результат инспекции контента шага. Не персистится, вычисляется на запрос.
type Info struct {
	Meta       Meta
	HasChoices bool
}

// payload - минимальная схема, которую движок извлекает из непрозрачного контента.
// Остальные поля (текст, спрайты, оверлеи) движок не интерпретирует.
type payload struct {
	Meta    *Meta          `json:"meta,omitempty"`
	Choices []ChoiceOption `json:"choices,omitempty"`
}

func parse(raw json.RawMessage) (*payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &payload{}, nil
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse step content: %w", err)
	}
	return &p, nil
}

// Inspect извлекает метаданные ветки/концовки и признак наличия вариантов выбора.
func Inspect(raw json.RawMessage) (Info, error) {
	p, err := parse(raw)
	if err != nil {
		return Info{}, err
	}
	info := Info{HasChoices: len(p.Choices) > 0}
	if p.Meta != nil {
		info.Meta = *p.Meta
	}
	return info, nil
}

// Choices возвращает упорядоченный список вариантов выбора шага.
// Пустой срез для шага без вариантов.
func Choices(raw json.RawMessage) ([]ChoiceOption, error) {
	p, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return p.Choices, nil
}
