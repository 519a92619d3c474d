package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrStepNotFound     = errors.New("step not found or does not belong to scenario")
	ErrQuizNotFound     = errors.New("quiz not found")

	// Scenario Graph Errors
	ErrStepContentConflict = errors.New("step carries both quiz and choices") // Дефект авторинга, не ошибка пользователя
	ErrScenarioEmpty       = errors.New("scenario has no steps")
	ErrNoReturnPoint       = errors.New("bad ending step has no derivable return point")

	// Request Errors
	ErrInvalidAnswer = errors.New("answer index out of range")
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidInput  = errors.New("invalid input data")

	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// General Server Errors
	ErrInternalServer = errors.New("internal server error")
)
