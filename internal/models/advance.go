package models

// AdvanceStatus - результат одного шага продвижения по сценарию.
type AdvanceStatus string

const (
	// StatusAdvanced - переход на следующий шаг с пересчетом прогресса.
	StatusAdvanced AdvanceStatus = "ADVANCED"
	// StatusAdvancedFrozen - позиция изменилась, прогресс заморожен (плохая ветка).
	StatusAdvancedFrozen AdvanceStatus = "ADVANCED_FROZEN"
	// StatusChoiceRequired - шаг с выбором, ответ не передан.
	StatusChoiceRequired AdvanceStatus = "CHOICE_REQUIRED"
	// StatusQuizRequired - шаг закрыт квизом, ответ не передан.
	StatusQuizRequired AdvanceStatus = "QUIZ_REQUIRED"
	// StatusQuizWrong - ответ на квиз неверен, позиция не меняется.
	StatusQuizWrong AdvanceStatus = "QUIZ_WRONG"
	// StatusBadEnding - достигнута плохая концовка; клиент показывает экран концовки,
	// следующий resume вернет точку возврата.
	StatusBadEnding AdvanceStatus = "BAD_ENDING"
	// StatusCompleted - сценарий завершен, награда начислена (не более одного раза).
	StatusCompleted AdvanceStatus = "COMPLETED"
)

// AdvanceResult - исход advance-запроса.
// Step == nil только для StatusCompleted.
// Quiz присутствует только для QUIZ_REQUIRED / QUIZ_WRONG.
type AdvanceResult struct {
	Status AdvanceStatus `json:"status"`
	Step   *Step         `json:"step,omitempty"`
	Quiz   *Quiz         `json:"quiz,omitempty"`
}

// CheckpointResult - результат явного сохранения позиции. Чекпоинт никогда
// не запускает завершение сценария, даже на терминальном шаге.
type CheckpointResult struct {
	ScenarioID   string  `json:"scenarioId"`
	StepID       string  `json:"stepId"`
	ProgressRate float64 `json:"progressRate"`
}

// ScenarioCompletedEvent публикуется в очередь client updates после коммита
// транзакции завершения.
type ScenarioCompletedEvent struct {
	UserID          string `json:"user_id"`
	ScenarioID      string `json:"scenario_id"`
	RewardPoints    int    `json:"reward_points"`
	FirstCompletion bool   `json:"first_completion"`
}
