package repository

import (
	"context"
	"time"

	"edubank-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ PointRepository = (*pgPointRepository)(nil)

type pgPointRepository struct {
	logger *zap.Logger
}

// NewPgPointRepository creates a new repository instance.
func NewPgPointRepository(logger *zap.Logger) PointRepository {
	return &pgPointRepository{logger: logger.Named("PgPointRepo")}
}

const insertPointTxnQuery = `
INSERT INTO point_transactions (id, user_id, amount, reason, scenario_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const balanceByUserQuery = `
SELECT COALESCE(SUM(amount), 0) FROM point_transactions WHERE user_id = $1`

const listPointTxnsQuery = `
SELECT id, user_id, amount, reason, scenario_id, created_at
FROM point_transactions
WHERE user_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

func (r *pgPointRepository) Insert(ctx context.Context, q DBTX, txn *models.PointTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	_, err := q.Exec(ctx, insertPointTxnQuery,
		txn.ID, txn.UserID, txn.Amount, txn.Reason, txn.ScenarioID, txn.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert point transaction",
			zap.Stringer("userID", txn.UserID), zap.Int("amount", txn.Amount), zap.Error(err))
		return err
	}
	r.logger.Debug("Inserted point transaction",
		zap.Stringer("userID", txn.UserID), zap.Int("amount", txn.Amount), zap.String("reason", txn.Reason))
	return nil
}

func (r *pgPointRepository) BalanceByUser(ctx context.Context, q DBTX, userID uuid.UUID) (int64, error) {
	var balance int64
	if err := q.QueryRow(ctx, balanceByUserQuery, userID).Scan(&balance); err != nil {
		r.logger.Error("Failed to get point balance", zap.Stringer("userID", userID), zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (r *pgPointRepository) ListByUser(ctx context.Context, q DBTX, userID uuid.UUID, limit, offset int) ([]*models.PointTransaction, error) {
	var txns []*models.PointTransaction
	if err := pgxscan.Select(ctx, q, &txns, listPointTxnsQuery, userID, limit, offset); err != nil {
		r.logger.Error("Failed to list point transactions", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return txns, nil
}
