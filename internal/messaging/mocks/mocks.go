package mocks

import (
	"context"

	"edubank-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock ClientUpdatePublisher
type ClientUpdatePublisher struct {
	mock.Mock
}

func (m *ClientUpdatePublisher) PublishScenarioCompleted(ctx context.Context, payload models.ScenarioCompletedEvent) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
