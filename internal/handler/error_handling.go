package handler

import (
	"errors"
	"net/http"

	"edubank-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp errorResponse

	switch {
	case errors.Is(err, models.ErrScenarioNotFound),
		errors.Is(err, models.ErrStepNotFound),
		errors.Is(err, models.ErrQuizNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = errorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrStepContentConflict):
		statusCode = http.StatusConflict
		errResp = errorResponse{Error: "Step carries both quiz and choices (authoring defect)"}
	case errors.Is(err, models.ErrUserAlreadyExists):
		statusCode = http.StatusConflict
		errResp = errorResponse{Error: "Username already exists"}
	case errors.Is(err, models.ErrEmailAlreadyExists):
		statusCode = http.StatusConflict
		errResp = errorResponse{Error: "Email already exists"}
	case errors.Is(err, models.ErrInvalidAnswer),
		errors.Is(err, models.ErrBadRequest),
		errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = errorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResp = errorResponse{Error: "Invalid username or password"}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		errResp = errorResponse{Error: "Token is invalid or malformed"}
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = errorResponse{Error: "Token has expired"}
	case errors.Is(err, models.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		errResp = errorResponse{Error: "Provided token is invalid (possibly revoked or expired)"}
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = errorResponse{Error: "Unauthorized"}
	case errors.Is(err, models.ErrScenarioEmpty), errors.Is(err, models.ErrNoReturnPoint):
		// Дефекты графа сценария: ошибка на нашей стороне, не клиента.
		zap.L().Error("Scenario graph defect", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = errorResponse{Error: "Scenario data is invalid"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = errorResponse{Error: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
