package service

import (
	"context"

	"edubank-server/internal/models"
	"edubank-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PointsService - read-сторона леджера баллов.
type PointsService struct {
	tx        TxRunner
	pointRepo repository.PointRepository
	logger    *zap.Logger
}

// NewPointsService creates a new instance of PointsService.
func NewPointsService(tx TxRunner, pointRepo repository.PointRepository, logger *zap.Logger) *PointsService {
	return &PointsService{
		tx:        tx,
		pointRepo: pointRepo,
		logger:    logger.Named("PointsService"),
	}
}

// Balance возвращает суммарный баланс пользователя.
func (s *PointsService) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.pointRepo.BalanceByUser(ctx, s.tx.Querier(), userID)
}

// History возвращает страницу истории начислений, новые записи первыми.
func (s *PointsService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PointTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.pointRepo.ListByUser(ctx, s.tx.Querier(), userID, limit, offset)
}
