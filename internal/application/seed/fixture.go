// Package seed loads an organizer, one event and its catalog from a YAML
// fixture. It goes through the catalog service and the provider settings
// use case, so fixtures are validated like control API input.
package seed

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

type Fixture struct {
	Organizer OrganizerFixture `yaml:"organizer"`
	Event     EventFixture     `yaml:"event"`

	Categories []CategoryFixture `yaml:"categories"`
	Items      []ItemFixture     `yaml:"items"`
	Questions  []QuestionFixture `yaml:"questions"`
	Quotas     []QuotaFixture    `yaml:"quotas"`

	// PaymentProviders maps provider identifiers to their settings, e.g.
	// banktransfer: {_enabled: "true", bank_details: "..."}.
	PaymentProviders map[string]map[string]string `yaml:"payment_providers"`
}

type OrganizerFixture struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type EventFixture struct {
	Slug       string      `yaml:"slug"`
	Name       i18n.String `yaml:"name"`
	Currency   string      `yaml:"currency"`
	Locale     string      `yaml:"locale"`
	DateFrom   time.Time   `yaml:"date_from"`
	PresaleEnd *time.Time  `yaml:"presale_end"`
}

// CategoryFixture and ItemFixture carry a Key other entries refer to.
type CategoryFixture struct {
	Key  string      `yaml:"key"`
	Name i18n.String `yaml:"name"`
}

type ItemFixture struct {
	Key        string             `yaml:"key"`
	Category   string             `yaml:"category"`
	Name       i18n.String        `yaml:"name"`
	Price      string             `yaml:"price"`
	TaxRate    string             `yaml:"tax_rate"`
	Active     *bool              `yaml:"active"`
	Admission  bool               `yaml:"admission"`
	Variations []VariationFixture `yaml:"variations"`
}

type VariationFixture struct {
	Value  i18n.String `yaml:"value"`
	Price  *string     `yaml:"price"`
	Active *bool       `yaml:"active"`
}

type QuestionFixture struct {
	Question i18n.String   `yaml:"question"`
	Type     string        `yaml:"type"`
	Required bool          `yaml:"required"`
	Items    []string      `yaml:"items"`
	Options  []i18n.String `yaml:"options"`
}

type QuotaFixture struct {
	Name  string   `yaml:"name"`
	Size  *int     `yaml:"size"`
	Items []string `yaml:"items"`
}

// Parse decodes a fixture and rejects unknown fields.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if f.Organizer.Slug == "" || f.Event.Slug == "" {
		return nil, fmt.Errorf("fixture needs an organizer and an event slug")
	}
	if f.Event.DateFrom.IsZero() {
		return nil, fmt.Errorf("fixture event needs date_from")
	}

	keys := make(map[string]bool, len(f.Items))
	for _, it := range f.Items {
		if it.Key == "" {
			return nil, fmt.Errorf("item %v has no key", it.Name)
		}
		if keys[it.Key] {
			return nil, fmt.Errorf("duplicate item key %q", it.Key)
		}
		keys[it.Key] = true
	}
	return &f, nil
}
