package handler

import (
	"encoding/json"

	"edubank-server/internal/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type meResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type advanceRequest struct {
	CurrentStepID string `json:"currentStepId" binding:"required,uuid"`
	// Answer - индекс выбранного варианта/ответа на квиз. nil = ответа нет.
	Answer *int `json:"answer,omitempty"`
}

type checkpointRequest struct {
	StepID string `json:"stepId" binding:"required,uuid"`
}

// stepResponse - шаг без служебных полей графа (next/normalIndex клиенту не нужны).
type stepResponse struct {
	ScenarioID string          `json:"scenarioId"`
	StepID     string          `json:"stepId"`
	Type       models.StepType `json:"type"`
	QuizID     *string         `json:"quizId"`
	Content    interface{}     `json:"content"`
}

// quizResponse - квиз без ключа правильного ответа.
type quizResponse struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type advanceResponse struct {
	Status models.AdvanceStatus `json:"status"`
	Step   *stepResponse        `json:"step,omitempty"`
	Quiz   *quizResponse        `json:"quiz,omitempty"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func toStepResponse(step *models.Step) *stepResponse {
	if step == nil {
		return nil
	}
	resp := &stepResponse{
		ScenarioID: step.ScenarioID.String(),
		StepID:     step.ID.String(),
		Type:       step.Type,
	}
	if step.QuizID != nil {
		id := step.QuizID.String()
		resp.QuizID = &id
	}
	if len(step.Content) > 0 {
		resp.Content = json.RawMessage(step.Content)
	}
	return resp
}

func toQuizResponse(quiz *models.Quiz) *quizResponse {
	if quiz == nil {
		return nil
	}
	return &quizResponse{
		ID:       quiz.ID.String(),
		Question: quiz.Question,
		Options:  quiz.Options,
	}
}
