package mocks

import (
	"context"

	"edubank-server/internal/models"
	"edubank-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock ScenarioRepository
type ScenarioRepository struct {
	mock.Mock
}

func (m *ScenarioRepository) GetByID(ctx context.Context, q repository.DBTX, id uuid.UUID) (*models.Scenario, error) {
	args := m.Called(ctx, q, id)
	s, _ := args.Get(0).(*models.Scenario)
	return s, args.Error(1)
}
func (m *ScenarioRepository) List(ctx context.Context, q repository.DBTX, limit, offset int) ([]*models.Scenario, error) {
	args := m.Called(ctx, q, limit, offset)
	s, _ := args.Get(0).([]*models.Scenario)
	return s, args.Error(1)
}

// Mock StepRepository
type StepRepository struct {
	mock.Mock
}

func (m *StepRepository) ListByScenarioID(ctx context.Context, q repository.DBTX, scenarioID uuid.UUID) ([]*models.Step, error) {
	args := m.Called(ctx, q, scenarioID)
	s, _ := args.Get(0).([]*models.Step)
	return s, args.Error(1)
}

// Mock QuizRepository
type QuizRepository struct {
	mock.Mock
}

func (m *QuizRepository) GetByID(ctx context.Context, q repository.DBTX, id uuid.UUID) (*models.Quiz, error) {
	args := m.Called(ctx, q, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

// Mock ProgressRepository
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) GetByUserAndScenario(ctx context.Context, q repository.DBTX, userID, scenarioID uuid.UUID) (*models.ScenarioProgress, error) {
	args := m.Called(ctx, q, userID, scenarioID)
	p, _ := args.Get(0).(*models.ScenarioProgress)
	return p, args.Error(1)
}
func (m *ProgressRepository) Upsert(ctx context.Context, q repository.DBTX, progress *models.ScenarioProgress) error {
	args := m.Called(ctx, q, progress)
	return args.Error(0)
}

// Mock CompletionRepository
type CompletionRepository struct {
	mock.Mock
}

func (m *CompletionRepository) InsertIgnore(ctx context.Context, q repository.DBTX, userID, scenarioID uuid.UUID) (bool, error) {
	args := m.Called(ctx, q, userID, scenarioID)
	return args.Bool(0), args.Error(1)
}
func (m *CompletionRepository) CountByUser(ctx context.Context, q repository.DBTX, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, q, userID)
	return args.Int(0), args.Error(1)
}
func (m *CompletionRepository) Exists(ctx context.Context, q repository.DBTX, userID, scenarioID uuid.UUID) (bool, error) {
	args := m.Called(ctx, q, userID, scenarioID)
	return args.Bool(0), args.Error(1)
}

// Mock PointRepository
type PointRepository struct {
	mock.Mock
}

func (m *PointRepository) Insert(ctx context.Context, q repository.DBTX, txn *models.PointTransaction) error {
	args := m.Called(ctx, q, txn)
	return args.Error(0)
}
func (m *PointRepository) BalanceByUser(ctx context.Context, q repository.DBTX, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *PointRepository) ListByUser(ctx context.Context, q repository.DBTX, userID uuid.UUID, limit, offset int) ([]*models.PointTransaction, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	t, _ := args.Get(0).([]*models.PointTransaction)
	return t, args.Error(1)
}

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, q repository.DBTX, user *models.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}
func (m *UserRepository) GetByUsername(ctx context.Context, q repository.DBTX, username string) (*models.User, error) {
	args := m.Called(ctx, q, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
func (m *UserRepository) GetByID(ctx context.Context, q repository.DBTX, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, q, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) GetUserIDByRefresh(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, refreshUUID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
func (m *TokenRepository) DeleteTokens(ctx context.Context, accessUUID, refreshUUID string) error {
	args := m.Called(ctx, accessUUID, refreshUUID)
	return args.Error(0)
}

// Mock StepCache
type StepCache struct {
	mock.Mock
}

func (m *StepCache) GetSteps(ctx context.Context, scenarioID uuid.UUID) ([]*models.Step, error) {
	args := m.Called(ctx, scenarioID)
	s, _ := args.Get(0).([]*models.Step)
	return s, args.Error(1)
}
func (m *StepCache) SetSteps(ctx context.Context, scenarioID uuid.UUID, steps []*models.Step) error {
	args := m.Called(ctx, scenarioID, steps)
	return args.Error(0)
}
