package dto

import (
	"github.com/orris-inc/ticketry/internal/domain/payment"
)

// FieldDTO is a settings form field with its current value.
type FieldDTO struct {
	Key      string           `json:"key"`
	Type     string           `json:"type"`
	Label    string           `json:"label"`
	HelpText string           `json:"help_text,omitempty"`
	Required bool             `json:"required"`
	Choices  []payment.Choice `json:"choices,omitempty"`
	Value    string           `json:"value"`
}

type ProviderSettingsDTO struct {
	Identifier  string     `json:"identifier"`
	VerboseName string     `json:"verbose_name"`
	Enabled     bool       `json:"enabled"`
	FeeAbs      string     `json:"fee_abs"`
	FeePercent  string     `json:"fee_percent"`
	Fields      []FieldDTO `json:"fields"`
}

type UpdateProviderSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// ToProviderSettingsDTO lists the settings form of b with the values of its
// sandbox.
func ToProviderSettingsDTO(b *payment.Bound) *ProviderSettingsDTO {
	fields := b.SettingsFormFields()
	out := &ProviderSettingsDTO{
		Identifier:  b.Identifier(),
		VerboseName: b.VerboseName(),
		Enabled:     b.IsEnabled(),
		FeeAbs:      b.FeeAbs().String(),
		FeePercent:  b.FeePercent().String(),
		Fields:      make([]FieldDTO, 0, len(fields)),
	}
	for _, f := range fields {
		value, _ := b.Settings().Get(f.Key)
		out.Fields = append(out.Fields, FieldDTO{
			Key:      f.Key,
			Type:     string(f.Type),
			Label:    f.Label,
			HelpText: f.HelpText,
			Required: f.Required,
			Choices:  f.Choices,
			Value:    value,
		})
	}
	return out
}
