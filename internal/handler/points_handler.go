package handler

import (
	"net/http"
	"strconv"

	"edubank-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PointsHandler - read-сторона леджера баллов.
type PointsHandler struct {
	points *service.PointsService
	logger *zap.Logger
}

func NewPointsHandler(points *service.PointsService, logger *zap.Logger) *PointsHandler {
	return &PointsHandler{
		points: points,
		logger: logger.Named("PointsHandler"),
	}
}

func (h *PointsHandler) RegisterRoutes(api *gin.RouterGroup) {
	pointsGroup := api.Group("/points")
	{
		pointsGroup.GET("/balance", h.balance)
		pointsGroup.GET("/history", h.history)
	}
}

func (h *PointsHandler) balance(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	balance, err := h.points.Balance(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

func (h *PointsHandler) history(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.points.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
