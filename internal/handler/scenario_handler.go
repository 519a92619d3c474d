package handler

import (
	"net/http"
	"strconv"

	"edubank-server/internal/models"
	"edubank-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScenarioHandler обслуживает движок прогрессии: resume/advance/checkpoint и каталог.
type ScenarioHandler struct {
	progression *service.ProgressionService
	logger      *zap.Logger
}

func NewScenarioHandler(progression *service.ProgressionService, logger *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		progression: progression,
		logger:      logger.Named("ScenarioHandler"),
	}
}

// RegisterRoutes вешает маршруты на защищенную группу (auth middleware снаружи).
func (h *ScenarioHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/scenarios", h.listScenarios)
	scenarioGroup := api.Group("/scenarios/:scenario_id")
	{
		scenarioGroup.POST("/resume", h.resume)
		scenarioGroup.POST("/advance", h.advance)
		scenarioGroup.POST("/checkpoint", h.saveCheckpoint)
	}
}

func (h *ScenarioHandler) listScenarios(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	overviews, err := h.progression.ListScenarios(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": overviews})
}

func (h *ScenarioHandler) resume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	scenarioID, err := uuid.Parse(c.Param("scenario_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid scenario id"})
		return
	}

	step, err := h.progression.Resume(c.Request.Context(), userID, scenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStepResponse(step))
}

func (h *ScenarioHandler) advance(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	scenarioID, err := uuid.Parse(c.Param("scenario_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid scenario id"})
		return
	}

	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	currentStepID, err := uuid.Parse(req.CurrentStepID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid step id"})
		return
	}

	result, err := h.progression.Advance(c.Request.Context(), userID, scenarioID, currentStepID, req.Answer)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	advancesTotal.WithLabelValues(string(result.Status)).Inc()
	if result.Status == models.StatusCompleted {
		completionsTotal.Inc()
	}

	c.JSON(http.StatusOK, advanceResponse{
		Status: result.Status,
		Step:   toStepResponse(result.Step),
		Quiz:   toQuizResponse(result.Quiz),
	})
}

func (h *ScenarioHandler) saveCheckpoint(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	scenarioID, err := uuid.Parse(c.Param("scenario_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid scenario id"})
		return
	}

	var req checkpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	stepID, err := uuid.Parse(req.StepID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid step id"})
		return
	}

	result, err := h.progression.SaveCheckpoint(c.Request.Context(), userID, scenarioID, stepID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	checkpointsTotal.Inc()
	c.JSON(http.StatusOK, result)
}

// userIDFromContext достает userID, положенный auth middleware. Отсутствие - ошибка
// конфигурации маршрутов, отвечаем 401.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(models.GinUserIDKey)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}
