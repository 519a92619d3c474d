package service

import (
	"context"
	"testing"

	messagingMocks "edubank-server/internal/messaging/mocks"
	"edubank-server/internal/models"
	"edubank-server/internal/repository"
	repoMocks "edubank-server/internal/repository/mocks"

	"edubank-server/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubTxRunner выполняет fn без реальной транзакции - моки репозиториев
// игнорируют querier.
type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(q repository.DBTX) error) error {
	return fn(nil)
}

func (stubTxRunner) Querier() repository.DBTX { return nil }

type progressionFixture struct {
	scenarioRepo   *repoMocks.ScenarioRepository
	stepRepo       *repoMocks.StepRepository
	quizRepo       *repoMocks.QuizRepository
	progressRepo   *repoMocks.ProgressRepository
	completionRepo *repoMocks.CompletionRepository
	pointRepo      *repoMocks.PointRepository
	publisher      *messagingMocks.ClientUpdatePublisher
	svc            *ProgressionService
}

func newProgressionFixture() *progressionFixture {
	f := &progressionFixture{
		scenarioRepo:   new(repoMocks.ScenarioRepository),
		stepRepo:       new(repoMocks.StepRepository),
		quizRepo:       new(repoMocks.QuizRepository),
		progressRepo:   new(repoMocks.ProgressRepository),
		completionRepo: new(repoMocks.CompletionRepository),
		pointRepo:      new(repoMocks.PointRepository),
		publisher:      new(messagingMocks.ClientUpdatePublisher),
	}
	f.svc = NewProgressionService(
		stubTxRunner{},
		f.scenarioRepo, f.stepRepo, f.quizRepo,
		f.progressRepo, f.completionRepo, f.pointRepo,
		nil, f.publisher,
		config.RewardConfig{FirstCompletionPoints: 100, RepeatCompletionPoints: 25},
		zap.NewNop(),
	)
	return f
}

func (f *progressionFixture) assertExpectations(t *testing.T) {
	f.scenarioRepo.AssertExpectations(t)
	f.stepRepo.AssertExpectations(t)
	f.quizRepo.AssertExpectations(t)
	f.progressRepo.AssertExpectations(t)
	f.completionRepo.AssertExpectations(t)
	f.pointRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

// Линейный сценарий из трех шагов канонического пути.
func linearScenario() (*models.Scenario, []*models.Step) {
	scenario := &models.Scenario{ID: uuid.New(), Title: "Первый бюджет", TotalNormalSteps: intPtr(3)}
	s3 := &models.Step{ID: uuid.New(), ScenarioID: scenario.ID, Type: models.StepTypeDialog, NormalIndex: intPtr(3)}
	s2 := &models.Step{ID: uuid.New(), ScenarioID: scenario.ID, Type: models.StepTypeDialog, NextStepID: &s3.ID, NormalIndex: intPtr(2)}
	s1 := &models.Step{ID: uuid.New(), ScenarioID: scenario.ID, Type: models.StepTypeDialog, NextStepID: &s2.ID, NormalIndex: intPtr(1)}
	return scenario, []*models.Step{s1, s2, s3}
}

func TestProgressionService_Advance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Normal advance updates progress and returns next step", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s1, s2 := steps[0], steps[1]

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.ScenarioProgress) bool {
			return p.CurrentStepID == s2.ID && p.ProgressRate == 66.7 && p.UserID == userID
		})).Return(nil).Once()

		result, err := f.svc.Advance(ctx, userID, scenario.ID, s1.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAdvanced, result.Status)
		assert.Equal(t, s2.ID, result.Step.ID)
		f.assertExpectations(t)
	})

	t.Run("Final advance completes with first-time reward and resets progress", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s1, s3 := steps[0], steps[2]
		progress := &models.ScenarioProgress{
			ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID,
			CurrentStepID: s3.ID, ProgressRate: 100.0,
		}

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(progress, nil).Once()

		f.completionRepo.On("InsertIgnore", mock.Anything, mock.Anything, userID, scenario.ID).Return(true, nil).Once()
		f.completionRepo.On("CountByUser", mock.Anything, mock.Anything, userID).Return(1, nil).Once()
		f.pointRepo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(txn *models.PointTransaction) bool {
			return txn.Amount == 100 && txn.Reason == models.PointReasonScenarioReward &&
				txn.ScenarioID != nil && *txn.ScenarioID == scenario.ID
		})).Return(nil).Once()
		// Сброс на стартовый шаг с нулевым прогрессом.
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.ScenarioProgress) bool {
			return p.CurrentStepID == s1.ID && p.ProgressRate == 0
		})).Return(nil).Once()
		f.publisher.On("PublishScenarioCompleted", mock.Anything, mock.MatchedBy(func(e models.ScenarioCompletedEvent) bool {
			return e.RewardPoints == 100 && e.FirstCompletion && e.ScenarioID == scenario.ID.String()
		})).Return(nil).Once()

		result, err := f.svc.Advance(ctx, userID, scenario.ID, s3.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, result.Status)
		assert.Nil(t, result.Step)
		assert.Nil(t, result.Quiz)
		f.assertExpectations(t)
	})

	t.Run("Repeat scenario completion grants smaller reward", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s3 := steps[2]

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()

		f.completionRepo.On("InsertIgnore", mock.Anything, mock.Anything, userID, scenario.ID).Return(true, nil).Once()
		f.completionRepo.On("CountByUser", mock.Anything, mock.Anything, userID).Return(3, nil).Once()
		f.pointRepo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(txn *models.PointTransaction) bool {
			return txn.Amount == 25
		})).Return(nil).Once()
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.publisher.On("PublishScenarioCompleted", mock.Anything, mock.MatchedBy(func(e models.ScenarioCompletedEvent) bool {
			return e.RewardPoints == 25 && !e.FirstCompletion
		})).Return(nil).Once()

		result, err := f.svc.Advance(ctx, userID, scenario.ID, s3.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, result.Status)
		f.assertExpectations(t)
	})

	t.Run("Second final advance is a no-op completion without reward", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s3 := steps[2]

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()

		// Проигравший гонку/повторный advance: вставка не прошла, награды нет.
		f.completionRepo.On("InsertIgnore", mock.Anything, mock.Anything, userID, scenario.ID).Return(false, nil).Once()
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.ScenarioProgress) bool {
			return p.ProgressRate == 0
		})).Return(nil).Once()

		result, err := f.svc.Advance(ctx, userID, scenario.ID, s3.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, result.Status)
		f.pointRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishScenarioCompleted", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Unknown scenario is propagated", func(t *testing.T) {
		f := newProgressionFixture()
		scenarioID := uuid.New()

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenarioID).
			Return(nil, models.ErrScenarioNotFound).Once()

		_, err := f.svc.Advance(ctx, userID, scenarioID, uuid.New(), nil)
		assert.ErrorIs(t, err, models.ErrScenarioNotFound)
		f.assertExpectations(t)
	})
}

func TestProgressionService_SaveCheckpoint(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Checkpoint computes rate like advance would", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s2 := steps[1]

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.ScenarioProgress) bool {
			return p.CurrentStepID == s2.ID && p.ProgressRate == 66.7
		})).Return(nil).Once()

		result, err := f.svc.SaveCheckpoint(ctx, userID, scenario.ID, s2.ID)
		require.NoError(t, err)
		assert.Equal(t, scenario.ID.String(), result.ScenarioID)
		assert.Equal(t, s2.ID.String(), result.StepID)
		assert.Equal(t, 66.7, result.ProgressRate)
		f.assertExpectations(t)
	})

	t.Run("Checkpoint on terminal step never completes", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s3 := steps[2]

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()
		f.progressRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.ScenarioProgress) bool {
			return p.CurrentStepID == s3.ID && p.ProgressRate == 100.0
		})).Return(nil).Once()

		result, err := f.svc.SaveCheckpoint(ctx, userID, scenario.ID, s3.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, result.ProgressRate)
		f.completionRepo.AssertNotCalled(t, "InsertIgnore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.pointRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Checkpoint on off-scenario step is not found", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()

		_, err := f.svc.SaveCheckpoint(ctx, userID, scenario.ID, uuid.New())
		assert.ErrorIs(t, err, models.ErrStepNotFound)
		f.assertExpectations(t)
	})
}

func TestProgressionService_Resume(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Without progress returns the start step and creates nothing", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(nil, models.ErrNotFound).Once()

		step, err := f.svc.Resume(ctx, userID, scenario.ID)
		require.NoError(t, err)
		assert.Equal(t, steps[0].ID, step.ID)
		f.progressRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("With progress returns the saved position", func(t *testing.T) {
		f := newProgressionFixture()
		scenario, steps := linearScenario()
		s2 := steps[1]
		progress := &models.ScenarioProgress{
			ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID,
			CurrentStepID: s2.ID, ProgressRate: 66.7,
		}

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return(steps, nil).Once()
		f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenario.ID).
			Return(progress, nil).Once()

		step, err := f.svc.Resume(ctx, userID, scenario.ID)
		require.NoError(t, err)
		assert.Equal(t, s2.ID, step.ID)
		f.assertExpectations(t)
	})

	t.Run("Scenario without steps is a defect", func(t *testing.T) {
		f := newProgressionFixture()
		scenario := &models.Scenario{ID: uuid.New()}

		f.scenarioRepo.On("GetByID", mock.Anything, mock.Anything, scenario.ID).Return(scenario, nil).Once()
		f.stepRepo.On("ListByScenarioID", mock.Anything, mock.Anything, scenario.ID).Return([]*models.Step{}, nil).Once()

		_, err := f.svc.Resume(ctx, userID, scenario.ID)
		assert.ErrorIs(t, err, models.ErrScenarioEmpty)
		f.assertExpectations(t)
	})
}

func TestProgressionService_ListScenarios(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	f := newProgressionFixture()
	scenarioA := &models.Scenario{ID: uuid.New(), Title: "Бюджет"}
	scenarioB := &models.Scenario{ID: uuid.New(), Title: "Вклад"}

	f.scenarioRepo.On("List", mock.Anything, mock.Anything, 20, 0).
		Return([]*models.Scenario{scenarioA, scenarioB}, nil).Once()
	f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenarioA.ID).
		Return(&models.ScenarioProgress{ProgressRate: 33.3}, nil).Once()
	f.completionRepo.On("Exists", mock.Anything, mock.Anything, userID, scenarioA.ID).Return(false, nil).Once()
	f.progressRepo.On("GetByUserAndScenario", mock.Anything, mock.Anything, userID, scenarioB.ID).
		Return(nil, models.ErrNotFound).Once()
	f.completionRepo.On("Exists", mock.Anything, mock.Anything, userID, scenarioB.ID).Return(true, nil).Once()

	overviews, err := f.svc.ListScenarios(ctx, userID, 20, 0)
	require.NoError(t, err)
	require.Len(t, overviews, 2)
	assert.Equal(t, 33.3, overviews[0].ProgressRate)
	assert.False(t, overviews[0].Completed)
	assert.Equal(t, 0.0, overviews[1].ProgressRate)
	assert.True(t, overviews[1].Completed)
	f.assertExpectations(t)
}
