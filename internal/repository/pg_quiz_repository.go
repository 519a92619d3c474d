package repository

import (
	"context"
	"errors"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var _ QuizRepository = (*pgQuizRepository)(nil)

type pgQuizRepository struct {
	logger *zap.Logger
}

// NewPgQuizRepository creates a new repository instance.
func NewPgQuizRepository(logger *zap.Logger) QuizRepository {
	return &pgQuizRepository{logger: logger.Named("PgQuizRepo")}
}

const getQuizByIDQuery = `
SELECT id, question, options, correct_index
FROM quizzes
WHERE id = $1`

func (r *pgQuizRepository) GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	var options pq.StringArray
	err := q.QueryRow(ctx, getQuizByIDQuery, id).Scan(
		&quiz.ID,
		&quiz.Question,
		&options,
		&quiz.CorrectIndex,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrQuizNotFound
		}
		r.logger.Error("Failed to get quiz", zap.Stringer("quizID", id), zap.Error(err))
		return nil, err
	}
	quiz.Options = []string(options)
	return quiz, nil
}
