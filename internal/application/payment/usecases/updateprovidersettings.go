package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/orris-inc/ticketry/internal/application/payment/dto"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/setting"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UpdateProviderSettingsCommand struct {
	EventID    uint
	Identifier string
	Settings   map[string]string
}

// UpdateProviderSettingsUseCase validates submitted values against the
// provider's settings form and stores them in the provider's namespace.
// Keys that are not submitted keep their stored value. Required fields are
// only enforced while the provider is enabled.
type UpdateProviderSettingsUseCase struct {
	providers *ProviderSet
	settings  setting.Repository
	tx        TransactionRunner
	logger    logger.Interface
}

func NewUpdateProviderSettingsUseCase(
	providers *ProviderSet,
	settings setting.Repository,
	tx TransactionRunner,
	logger logger.Interface,
) *UpdateProviderSettingsUseCase {
	return &UpdateProviderSettingsUseCase{
		providers: providers,
		settings:  settings,
		tx:        tx,
		logger:    logger,
	}
}

func (uc *UpdateProviderSettingsUseCase) Execute(ctx context.Context, cmd UpdateProviderSettingsCommand) (*dto.ProviderSettingsDTO, error) {
	bound, err := uc.providers.Bind(ctx, cmd.EventID, cmd.Identifier)
	if err != nil {
		if errors.Is(err, payment.ErrProviderNotFound) {
			return nil, apperrors.NewNotFoundError("payment provider not found", cmd.Identifier)
		}
		return nil, err
	}

	fields := bound.SettingsFormFields()
	if err := rejectUnknownKeys(fields, cmd.Settings); err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := cmd.Settings[f.Key]; ok {
			merged[f.Key] = v
		} else if v, ok := bound.Settings().Get(f.Key); ok {
			merged[f.Key] = v
		}
	}

	enabledField, _ := fields.Lookup(payment.KeyEnabled)
	enabled, _ := enabledField.Clean(merged[payment.KeyEnabled])

	cleaned := make(map[string]string, len(cmd.Settings))
	var problems []string
	for _, f := range fields {
		if enabled != "true" {
			f.Required = false
		}
		v, err := f.Clean(merged[f.Key])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", f.Key, err))
			continue
		}
		if _, submitted := cmd.Settings[f.Key]; submitted {
			cleaned[f.Key] = v
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid payment settings", problems...)
	}

	ns := setting.PaymentNamespace(cmd.Identifier)
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, key := range sortedKeys(cleaned) {
			f, _ := fields.Lookup(key)
			if err := uc.store(ctx, cmd.EventID, ns, key, valueTypeFor(f.Type), cleaned[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to update payment settings", "event_id", cmd.EventID, "provider", cmd.Identifier, "error", err)
		return nil, err
	}

	uc.logger.Infow("payment settings updated", "event_id", cmd.EventID, "provider", cmd.Identifier, "keys", len(cleaned))

	bound, err = uc.providers.Bind(ctx, cmd.EventID, cmd.Identifier)
	if err != nil {
		return nil, err
	}
	return dto.ToProviderSettingsDTO(bound), nil
}

func (uc *UpdateProviderSettingsUseCase) store(ctx context.Context, eventID uint, ns, key string, vt setting.ValueType, value string) error {
	s, err := uc.settings.GetByKey(ctx, eventID, ns, key)
	if errors.Is(err, setting.ErrSettingNotFound) {
		s, err = setting.NewEventSetting(eventID, ns, key, vt)
	}
	if err != nil {
		return err
	}
	if err := s.SetValue(value); err != nil {
		return apperrors.NewValidationError(err.Error(), key)
	}
	return uc.settings.Upsert(ctx, s)
}

func rejectUnknownKeys(fields payment.Fields, values map[string]string) error {
	var unknown []string
	for key := range values {
		if _, ok := fields.Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return apperrors.NewValidationError("unknown payment settings", unknown...)
}

func valueTypeFor(t payment.FieldType) setting.ValueType {
	switch t {
	case payment.FieldBool:
		return setting.ValueTypeBool
	case payment.FieldDecimal:
		return setting.ValueTypeDecimal
	default:
		return setting.ValueTypeString
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
