package repository

import (
	"context"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX - общий интерфейс для *pgxpool.Pool и pgx.Tx. Методы репозиториев принимают
// querier явно, чтобы сервис мог выполнять их внутри одной транзакции.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ScenarioRepository - read-only доступ к сценариям.
type ScenarioRepository interface {
	GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Scenario, error)
	List(ctx context.Context, q DBTX, limit, offset int) ([]*models.Scenario, error)
}

// StepRepository - read-only доступ к шагам сценария.
type StepRepository interface {
	ListByScenarioID(ctx context.Context, q DBTX, scenarioID uuid.UUID) ([]*models.Step, error)
}

// QuizRepository - read-only доступ к квизам.
type QuizRepository interface {
	GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Quiz, error)
}

// ProgressRepository - позиция пользователя в сценарии.
type ProgressRepository interface {
	GetByUserAndScenario(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (*models.ScenarioProgress, error)
	Upsert(ctx context.Context, q DBTX, progress *models.ScenarioProgress) error
}

// CompletionRepository - записи о завершении сценариев.
type CompletionRepository interface {
	// InsertIgnore вставляет запись о завершении. Возвращает true, если запись
	// действительно создана, и false, если она уже существовала (конкурентный
	// или повторный финальный advance). Это единственная точка сериализации,
	// гарантирующая exactly-once для награды.
	InsertIgnore(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (bool, error)
	CountByUser(ctx context.Context, q DBTX, userID uuid.UUID) (int, error)
	Exists(ctx context.Context, q DBTX, userID, scenarioID uuid.UUID) (bool, error)
}

// PointRepository - append-only леджер баллов.
type PointRepository interface {
	Insert(ctx context.Context, q DBTX, txn *models.PointTransaction) error
	BalanceByUser(ctx context.Context, q DBTX, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, q DBTX, userID uuid.UUID, limit, offset int) ([]*models.PointTransaction, error)
}

// UserRepository - учетные записи.
type UserRepository interface {
	Create(ctx context.Context, q DBTX, user *models.User) error
	GetByUsername(ctx context.Context, q DBTX, username string) (*models.User, error)
	GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.User, error)
}

// TokenRepository - хранилище выданных access/refresh токенов (Redis).
type TokenRepository interface {
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error
	GetUserIDByRefresh(ctx context.Context, refreshUUID string) (uuid.UUID, error)
	DeleteTokens(ctx context.Context, accessUUID, refreshUUID string) error
}

// StepCache - процессный кэш карты шагов сценария. Сценарии неизменяемы после
// авторинга, поэтому протокол инвалидации не нужен - только TTL.
type StepCache interface {
	GetSteps(ctx context.Context, scenarioID uuid.UUID) ([]*models.Step, error)
	SetSteps(ctx context.Context, scenarioID uuid.UUID, steps []*models.Step) error
}
