package service

import (
	"encoding/json"
	"testing"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepContext(t *testing.T) {
	userID := uuid.New()
	scenario := &models.Scenario{ID: uuid.New(), Title: "Вклад", TotalNormalSteps: intPtr(3)}

	t.Run("Empty step set is a graph defect", func(t *testing.T) {
		_, err := newStepContext(userID, scenario, nil, uuid.New(), nil, nil)
		assert.ErrorIs(t, err, models.ErrScenarioEmpty)
	})

	t.Run("Step outside scenario is not found", func(t *testing.T) {
		steps := []*models.Step{{ID: uuid.New(), ScenarioID: scenario.ID}}
		_, err := newStepContext(userID, scenario, steps, uuid.New(), nil, nil)
		assert.ErrorIs(t, err, models.ErrStepNotFound)
	})

	t.Run("Quiz plus choices is an authoring conflict", func(t *testing.T) {
		quizID := uuid.New()
		step := &models.Step{
			ID:         uuid.New(),
			ScenarioID: scenario.ID,
			QuizID:     &quizID,
			Content:    json.RawMessage(`{"choices": [{"text": "A", "good": true}]}`),
		}
		_, err := newStepContext(userID, scenario, []*models.Step{step}, step.ID, nil, nil)
		assert.ErrorIs(t, err, models.ErrStepContentConflict)
	})

	t.Run("Flags derived from content", func(t *testing.T) {
		step := &models.Step{
			ID:         uuid.New(),
			ScenarioID: scenario.ID,
			Content:    json.RawMessage(`{"meta": {"branch": "bad", "badEnding": true}}`),
		}
		sc, err := newStepContext(userID, scenario, []*models.Step{step}, step.ID, nil, nil)
		require.NoError(t, err)
		assert.True(t, sc.BadBranch)
		assert.True(t, sc.BadEnding)
		assert.False(t, sc.HasChoices)
		assert.Equal(t, step, sc.Current)
	})
}

func TestResolveStartStep(t *testing.T) {
	t.Run("Step never referenced as next is the start", func(t *testing.T) {
		s3 := &models.Step{ID: uuid.New()}
		s2 := &models.Step{ID: uuid.New(), NextStepID: &s3.ID}
		s1 := &models.Step{ID: uuid.New(), NextStepID: &s2.ID}

		start := resolveStartStep([]*models.Step{s2, s3, s1})
		assert.Equal(t, s1.ID, start)
	})

	t.Run("Ambiguity broken by lowest id", func(t *testing.T) {
		target := &models.Step{ID: uuid.New()}
		a := &models.Step{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), NextStepID: &target.ID}
		b := &models.Step{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), NextStepID: &target.ID}

		start := resolveStartStep([]*models.Step{b, target, a})
		assert.Equal(t, a.ID, start)
	})

	t.Run("Full cycle has no derivable start", func(t *testing.T) {
		id1, id2 := uuid.New(), uuid.New()
		s1 := &models.Step{ID: id1, NextStepID: &id2}
		s2 := &models.Step{ID: id2, NextStepID: &id1}

		start := resolveStartStep([]*models.Step{s1, s2})
		assert.Equal(t, uuid.Nil, start)
	})
}
