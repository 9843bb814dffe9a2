package mappers

import (
	"github.com/orris-inc/ticketry/internal/domain/setting"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

// EventSettingMapper converts between event settings and their rows.
type EventSettingMapper interface {
	ToDomain(model *models.EventSettingModel) *setting.EventSetting
	ToModel(domain *setting.EventSetting) *models.EventSettingModel
	ToDomainList(modelList []*models.EventSettingModel) []*setting.EventSetting
}

type eventSettingMapper struct{}

func NewEventSettingMapper() EventSettingMapper {
	return eventSettingMapper{}
}

func (eventSettingMapper) ToDomain(model *models.EventSettingModel) *setting.EventSetting {
	if model == nil {
		return nil
	}
	return setting.ReconstructEventSetting(
		model.ID,
		model.EventID,
		model.Namespace,
		model.SettingKey,
		model.Value,
		setting.ValueType(model.ValueType),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (eventSettingMapper) ToModel(domain *setting.EventSetting) *models.EventSettingModel {
	if domain == nil {
		return nil
	}
	return &models.EventSettingModel{
		ID:         domain.ID(),
		EventID:    domain.EventID(),
		Namespace:  domain.Namespace(),
		SettingKey: domain.Key(),
		Value:      domain.Value(),
		ValueType:  string(domain.ValueType()),
		Version:    domain.Version(),
		CreatedAt:  domain.CreatedAt(),
		UpdatedAt:  domain.UpdatedAt(),
	}
}

func (m eventSettingMapper) ToDomainList(modelList []*models.EventSettingModel) []*setting.EventSetting {
	if modelList == nil {
		return nil
	}
	return mapper.MapSlice(modelList, m.ToDomain)
}
