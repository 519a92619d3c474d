package service

import (
	"context"
	"errors"

	"edubank-server/internal/config"
	"edubank-server/internal/messaging"
	"edubank-server/internal/models"
	"edubank-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressionService - оркестратор движка прогрессии: собирает контекст шага,
// запускает процессор внутри транзакции, владеет математикой прогресса и
// exactly-once начислением награды за завершение.
type ProgressionService struct {
	tx             TxRunner
	scenarioRepo   repository.ScenarioRepository
	stepRepo       repository.StepRepository
	quizRepo       repository.QuizRepository
	progressRepo   repository.ProgressRepository
	completionRepo repository.CompletionRepository
	pointRepo      repository.PointRepository
	stepCache      repository.StepCache
	publisher      messaging.ClientUpdatePublisher
	rewards        config.RewardConfig
	logger         *zap.Logger
}

// NewProgressionService создает сервис прогрессии. stepCache и publisher опциональны (nil).
func NewProgressionService(
	tx TxRunner,
	scenarioRepo repository.ScenarioRepository,
	stepRepo repository.StepRepository,
	quizRepo repository.QuizRepository,
	progressRepo repository.ProgressRepository,
	completionRepo repository.CompletionRepository,
	pointRepo repository.PointRepository,
	stepCache repository.StepCache,
	publisher messaging.ClientUpdatePublisher,
	rewards config.RewardConfig,
	logger *zap.Logger,
) *ProgressionService {
	return &ProgressionService{
		tx:             tx,
		scenarioRepo:   scenarioRepo,
		stepRepo:       stepRepo,
		quizRepo:       quizRepo,
		progressRepo:   progressRepo,
		completionRepo: completionRepo,
		pointRepo:      pointRepo,
		stepCache:      stepCache,
		publisher:      publisher,
		rewards:        rewards,
		logger:         logger.Named("ProgressionService"),
	}
}

// txProgressOps - реализация progressOps, привязанная к транзакции одного запроса.
type txProgressOps struct {
	svc *ProgressionService
	q   repository.DBTX
	// completedEvent заполняется в complete и публикуется сервисом после коммита.
	completedEvent *models.ScenarioCompletedEvent
}

var _ progressOps = (*txProgressOps)(nil)

func (o *txProgressOps) moveUnfrozen(ctx context.Context, sc *stepContext, target *models.Step) error {
	next := nextProgressValue(sc.Progress, sc.UserID, sc.Scenario, target.ID, target, false)
	return o.svc.progressRepo.Upsert(ctx, o.q, &next)
}

func (o *txProgressOps) moveFrozen(ctx context.Context, sc *stepContext, targetID uuid.UUID) error {
	next := nextProgressValue(sc.Progress, sc.UserID, sc.Scenario, targetID, nil, true)
	return o.svc.progressRepo.Upsert(ctx, o.q, &next)
}

func (o *txProgressOps) quizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return o.svc.quizRepo.GetByID(ctx, o.q, id)
}

// complete выполняет завершение сценария в той же транзакции, что и сам advance:
// insert-or-ignore записи о завершении (единственная точка сериализации),
// начисление ступенчатой награды только победителю вставки и сброс прогресса на старт.
func (o *txProgressOps) complete(ctx context.Context, sc *stepContext) error {
	if sc.StartStepID == uuid.Nil {
		// Некуда сбрасывать прогресс - дефект графа.
		return models.ErrNoReturnPoint
	}

	inserted, err := o.svc.completionRepo.InsertIgnore(ctx, o.q, sc.UserID, sc.Scenario.ID)
	if err != nil {
		return err
	}
	if inserted {
		count, err := o.svc.completionRepo.CountByUser(ctx, o.q, sc.UserID)
		if err != nil {
			return err
		}
		first := count == 1
		amount := o.svc.rewards.RepeatCompletionPoints
		if first {
			amount = o.svc.rewards.FirstCompletionPoints
		}
		scenarioID := sc.Scenario.ID
		txn := &models.PointTransaction{
			UserID:     sc.UserID,
			Amount:     amount,
			Reason:     models.PointReasonScenarioReward,
			ScenarioID: &scenarioID,
		}
		if err := o.svc.pointRepo.Insert(ctx, o.q, txn); err != nil {
			return err
		}
		o.completedEvent = &models.ScenarioCompletedEvent{
			UserID:          sc.UserID.String(),
			ScenarioID:      scenarioID.String(),
			RewardPoints:    amount,
			FirstCompletion: first,
		}
	}

	// Сброс прогресса на старт, чтобы следующий resume начал повествование заново.
	reset := nextProgressValue(sc.Progress, sc.UserID, sc.Scenario, sc.StartStepID, nil, true)
	reset.ProgressRate = 0
	return o.svc.progressRepo.Upsert(ctx, o.q, &reset)
}

// Advance выполняет один шаг продвижения пользователя по сценарию.
// Весь цикл (загрузка, процессор, персист, завершение) идет в одной транзакции.
func (s *ProgressionService) Advance(ctx context.Context, userID, scenarioID, currentStepID uuid.UUID, answer *int) (*models.AdvanceResult, error) {
	var (
		result *models.AdvanceResult
		event  *models.ScenarioCompletedEvent
	)
	err := s.tx.WithTx(ctx, func(q repository.DBTX) error {
		sc, err := s.buildContext(ctx, q, userID, scenarioID, currentStepID, answer)
		if err != nil {
			return err
		}
		ops := &txProgressOps{svc: s, q: q}
		result, err = resolveProcessor(sc).Process(ctx, sc, ops)
		if err != nil {
			return err
		}
		event = ops.completedEvent
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Событие уходит в очередь только после коммита; ошибка публикации не роняет запрос.
	if event != nil && s.publisher != nil {
		if pubErr := s.publisher.PublishScenarioCompleted(ctx, *event); pubErr != nil {
			s.logger.Error("Failed to publish scenario completed event",
				zap.String("userID", event.UserID),
				zap.String("scenarioID", event.ScenarioID),
				zap.Error(pubErr),
			)
		}
	}

	s.logger.Debug("Advance processed",
		zap.Stringer("userID", userID),
		zap.Stringer("scenarioID", scenarioID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// Resume возвращает шаг, с которого пользователь продолжает сценарий.
// Read-only: запись прогресса не создается; без прогресса возвращается стартовый шаг.
func (s *ProgressionService) Resume(ctx context.Context, userID, scenarioID uuid.UUID) (*models.Step, error) {
	q := s.tx.Querier()

	if _, err := s.scenarioRepo.GetByID(ctx, q, scenarioID); err != nil {
		return nil, err
	}
	steps, err := s.stepsForScenario(ctx, q, scenarioID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, models.ErrScenarioEmpty
	}

	stepMap := make(map[uuid.UUID]*models.Step, len(steps))
	for _, st := range steps {
		stepMap[st.ID] = st
	}

	currentID := resolveStartStep(steps)
	progress, err := s.progressRepo.GetByUserAndScenario(ctx, q, userID, scenarioID)
	switch {
	case err == nil:
		currentID = progress.CurrentStepID
	case errors.Is(err, models.ErrNotFound):
		// Первый заход - начинаем со старта.
	default:
		return nil, err
	}

	step, ok := stepMap[currentID]
	if !ok {
		return nil, models.ErrStepNotFound
	}
	return step, nil
}

// SaveCheckpoint явно сохраняет позицию с пересчетом прогресса как при advance,
// но никогда не запускает завершение: чекпоинт на терминальном шаге награды не дает.
func (s *ProgressionService) SaveCheckpoint(ctx context.Context, userID, scenarioID, stepID uuid.UUID) (*models.CheckpointResult, error) {
	var result *models.CheckpointResult
	err := s.tx.WithTx(ctx, func(q repository.DBTX) error {
		sc, err := s.buildContext(ctx, q, userID, scenarioID, stepID, nil)
		if err != nil {
			return err
		}
		next := nextProgressValue(sc.Progress, userID, sc.Scenario, sc.Current.ID, sc.Current, false)
		if err := s.progressRepo.Upsert(ctx, q, &next); err != nil {
			return err
		}
		result = &models.CheckpointResult{
			ScenarioID:   scenarioID.String(),
			StepID:       sc.Current.ID.String(),
			ProgressRate: next.ProgressRate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListScenarios возвращает каталог сценариев с прогрессом и флагом завершения пользователя.
func (s *ProgressionService) ListScenarios(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ScenarioOverview, error) {
	q := s.tx.Querier()

	scenarios, err := s.scenarioRepo.List(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}

	overviews := make([]*models.ScenarioOverview, 0, len(scenarios))
	for _, sc := range scenarios {
		overview := &models.ScenarioOverview{Scenario: sc}

		progress, err := s.progressRepo.GetByUserAndScenario(ctx, q, userID, sc.ID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		if progress != nil {
			overview.ProgressRate = progress.ProgressRate
		}

		completed, err := s.completionRepo.Exists(ctx, q, userID, sc.ID)
		if err != nil {
			return nil, err
		}
		overview.Completed = completed

		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// buildContext загружает сценарий, карту шагов и прогресс и собирает stepContext.
func (s *ProgressionService) buildContext(ctx context.Context, q repository.DBTX, userID, scenarioID, currentStepID uuid.UUID, answer *int) (*stepContext, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, q, scenarioID)
	if err != nil {
		return nil, err
	}
	steps, err := s.stepsForScenario(ctx, q, scenarioID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetByUserAndScenario(ctx, q, userID, scenarioID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		progress = nil
	}

	return newStepContext(userID, scenario, steps, currentStepID, answer, progress)
}

// stepsForScenario читает карту шагов сквозь кэш. Сценарии после публикации
// неизменяемы, поэтому чтение из кэша корректно и внутри транзакции.
func (s *ProgressionService) stepsForScenario(ctx context.Context, q repository.DBTX, scenarioID uuid.UUID) ([]*models.Step, error) {
	if s.stepCache != nil {
		steps, err := s.stepCache.GetSteps(ctx, scenarioID)
		if err == nil {
			return steps, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Step cache read failed, falling back to database",
				zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		}
	}

	steps, err := s.stepRepo.ListByScenarioID(ctx, q, scenarioID)
	if err != nil {
		return nil, err
	}
	if s.stepCache != nil && len(steps) > 0 {
		if err := s.stepCache.SetSteps(ctx, scenarioID, steps); err != nil {
			s.logger.Warn("Step cache write failed",
				zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		}
	}
	return steps, nil
}
