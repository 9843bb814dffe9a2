package usecases

import (
	"context"

	"github.com/orris-inc/ticketry/internal/application/payment/dto"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type ListProviderSettingsUseCase struct {
	providers *ProviderSet
	logger    logger.Interface
}

func NewListProviderSettingsUseCase(providers *ProviderSet, logger logger.Interface) *ListProviderSettingsUseCase {
	return &ListProviderSettingsUseCase{providers: providers, logger: logger}
}

func (uc *ListProviderSettingsUseCase) Execute(ctx context.Context, eventID uint) ([]*dto.ProviderSettingsDTO, error) {
	all, err := uc.providers.All(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to bind payment providers", "event_id", eventID, "error", err)
		return nil, err
	}
	return mapper.MapSlice(all, dto.ToProviderSettingsDTO), nil
}
