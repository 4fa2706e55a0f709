package usecase

import (
	"context"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/ports"
)

type GetEventUseCase struct {
	repo ports.EventRepositoryPort
}

func NewGetEventUseCase(repo ports.EventRepositoryPort) *GetEventUseCase {
	return &GetEventUseCase{repo: repo}
}

// Execute resolves a stream id. Tick ids never resolve.
func (uc *GetEventUseCase) Execute(ctx context.Context, id uint64) (*domain.Event, error) {
	if domain.IsTickID(id) {
		return nil, domain.ErrEventNotFound
	}
	return uc.repo.GetEvent(ctx, id)
}
