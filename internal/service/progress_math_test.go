package service

import (
	"testing"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestStepRate(t *testing.T) {
	scenario := func(total *int) *models.Scenario {
		return &models.Scenario{ID: uuid.New(), Title: "Бюджет", TotalNormalSteps: total}
	}

	t.Run("Index 2 of 4 gives 50.0", func(t *testing.T) {
		rate, ok := stepRate(&models.Step{NormalIndex: intPtr(2)}, scenario(intPtr(4)))
		require.True(t, ok)
		assert.Equal(t, 50.0, rate)
	})

	t.Run("Final index gives 100.0", func(t *testing.T) {
		rate, ok := stepRate(&models.Step{NormalIndex: intPtr(4)}, scenario(intPtr(4)))
		require.True(t, ok)
		assert.Equal(t, 100.0, rate)
	})

	t.Run("Rounded to one decimal", func(t *testing.T) {
		rate, ok := stepRate(&models.Step{NormalIndex: intPtr(1)}, scenario(intPtr(3)))
		require.True(t, ok)
		assert.Equal(t, 33.3, rate)

		rate, ok = stepRate(&models.Step{NormalIndex: intPtr(2)}, scenario(intPtr(3)))
		require.True(t, ok)
		assert.Equal(t, 66.7, rate)
	})

	t.Run("Clamped to 100", func(t *testing.T) {
		rate, ok := stepRate(&models.Step{NormalIndex: intPtr(7)}, scenario(intPtr(4)))
		require.True(t, ok)
		assert.Equal(t, 100.0, rate)
	})

	t.Run("Off-path step has no rate", func(t *testing.T) {
		_, ok := stepRate(&models.Step{NormalIndex: nil}, scenario(intPtr(4)))
		assert.False(t, ok)
	})

	t.Run("Scenario without total has no rate", func(t *testing.T) {
		_, ok := stepRate(&models.Step{NormalIndex: intPtr(2)}, scenario(nil))
		assert.False(t, ok)

		_, ok = stepRate(&models.Step{NormalIndex: intPtr(2)}, scenario(intPtr(0)))
		assert.False(t, ok)
	})
}

func TestNextProgressValue(t *testing.T) {
	userID := uuid.New()
	scenario := &models.Scenario{ID: uuid.New(), TotalNormalSteps: intPtr(4)}

	t.Run("First move creates record with computed rate", func(t *testing.T) {
		target := &models.Step{ID: uuid.New(), NormalIndex: intPtr(2)}
		next := nextProgressValue(nil, userID, scenario, target.ID, target, false)

		assert.Equal(t, userID, next.UserID)
		assert.Equal(t, scenario.ID, next.ScenarioID)
		assert.Equal(t, target.ID, next.CurrentStepID)
		assert.Equal(t, 50.0, next.ProgressRate)
	})

	t.Run("Rate is monotone: revisiting earlier index keeps stored rate", func(t *testing.T) {
		prev := &models.ScenarioProgress{ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID, ProgressRate: 75.0}
		target := &models.Step{ID: uuid.New(), NormalIndex: intPtr(1)}

		next := nextProgressValue(prev, userID, scenario, target.ID, target, false)
		assert.Equal(t, 75.0, next.ProgressRate)
		assert.Equal(t, target.ID, next.CurrentStepID)
		assert.Equal(t, prev.ID, next.ID)
	})

	t.Run("Frozen move keeps rate and only moves position", func(t *testing.T) {
		prev := &models.ScenarioProgress{ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID, ProgressRate: 25.0}
		targetID := uuid.New()

		next := nextProgressValue(prev, userID, scenario, targetID, nil, true)
		assert.Equal(t, 25.0, next.ProgressRate)
		assert.Equal(t, targetID, next.CurrentStepID)
	})

	t.Run("Off-path target freezes rate even on unfrozen path", func(t *testing.T) {
		prev := &models.ScenarioProgress{ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID, ProgressRate: 50.0}
		target := &models.Step{ID: uuid.New()} // без normalIndex

		next := nextProgressValue(prev, userID, scenario, target.ID, target, false)
		assert.Equal(t, 50.0, next.ProgressRate)
	})

	t.Run("Prev is not mutated", func(t *testing.T) {
		prev := &models.ScenarioProgress{ID: uuid.New(), UserID: userID, ScenarioID: scenario.ID, ProgressRate: 25.0, CurrentStepID: uuid.New()}
		before := *prev
		target := &models.Step{ID: uuid.New(), NormalIndex: intPtr(4)}

		_ = nextProgressValue(prev, userID, scenario, target.ID, target, false)
		assert.Equal(t, before, *prev)
	})
}
