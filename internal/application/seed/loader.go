package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	catalogApp "github.com/orris-inc/ticketry/internal/application/catalog"
	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	paymentdto "github.com/orris-inc/ticketry/internal/application/payment/dto"
	paymentUsecases "github.com/orris-inc/ticketry/internal/application/payment/usecases"
	"github.com/orris-inc/ticketry/internal/domain/event"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

type providerSettingsUpdater interface {
	Execute(ctx context.Context, cmd paymentUsecases.UpdateProviderSettingsCommand) (*paymentdto.ProviderSettingsDTO, error)
}

// Result counts what Load created.
type Result struct {
	EventID    uint
	Categories int
	Items      int
	Questions  int
	Quotas     int
	Providers  int
}

type Loader struct {
	events    event.Repository
	catalog   *catalogApp.ServiceDDD
	providers providerSettingsUpdater
	logger    logger.Interface
}

func NewLoader(events event.Repository, catalog *catalogApp.ServiceDDD, providers providerSettingsUpdater, logger logger.Interface) *Loader {
	return &Loader{events: events, catalog: catalog, providers: providers, logger: logger}
}

// Load creates the fixture's event below its organizer, reusing an existing
// organizer with the same slug. An event that already exists is a conflict.
func (l *Loader) Load(ctx context.Context, f *Fixture) (*Result, error) {
	org, err := l.organizer(ctx, f.Organizer)
	if err != nil {
		return nil, err
	}

	if _, err := l.events.GetBySlugs(ctx, org.Slug(), f.Event.Slug); err == nil {
		return nil, apperrors.NewConflictError("event already exists", org.Slug()+"/"+f.Event.Slug)
	} else if !errors.Is(err, event.ErrEventNotFound) {
		return nil, err
	}

	ev, err := event.NewEvent(org.ID(), f.Event.Slug, f.Event.Name, f.Event.Currency, f.Event.Locale, f.Event.DateFrom)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	ev.SetPresaleEnd(f.Event.PresaleEnd)
	if err := l.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	res := &Result{EventID: ev.ID()}

	categories := make(map[string]uint, len(f.Categories))
	for _, cf := range f.Categories {
		cat, err := l.catalog.CreateCategory(ctx, ev.ID(), dto.CategoryRequest{Name: cf.Name})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", cf.Key, err)
		}
		categories[cf.Key] = cat.ID
		res.Categories++
	}

	items := make(map[string]uint, len(f.Items))
	for _, itf := range f.Items {
		req, err := itemRequest(itf, categories)
		if err != nil {
			return nil, err
		}
		it, err := l.catalog.CreateItem(ctx, ev.ID(), req)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", itf.Key, err)
		}
		items[itf.Key] = it.ID
		res.Items++
	}

	for i, qf := range f.Questions {
		ids, err := resolveItems(qf.Items, items)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		options := make([]dto.OptionChange, 0, len(qf.Options))
		for _, o := range qf.Options {
			options = append(options, dto.OptionChange{Answer: o})
		}
		if _, err := l.catalog.CreateQuestion(ctx, ev.ID(), dto.QuestionRequest{
			Question: qf.Question,
			Type:     qf.Type,
			Required: qf.Required,
			ItemIDs:  ids,
			Options:  options,
		}); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		res.Questions++
	}

	for _, qf := range f.Quotas {
		ids, err := resolveItems(qf.Items, items)
		if err != nil {
			return nil, fmt.Errorf("quota %q: %w", qf.Name, err)
		}
		if _, err := l.catalog.CreateQuota(ctx, ev.ID(), dto.QuotaRequest{Name: qf.Name, Size: qf.Size, ItemIDs: ids}); err != nil {
			return nil, fmt.Errorf("quota %q: %w", qf.Name, err)
		}
		res.Quotas++
	}

	identifiers := make([]string, 0, len(f.PaymentProviders))
	for id := range f.PaymentProviders {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)
	for _, id := range identifiers {
		if _, err := l.providers.Execute(ctx, paymentUsecases.UpdateProviderSettingsCommand{
			EventID:    ev.ID(),
			Identifier: id,
			Settings:   f.PaymentProviders[id],
		}); err != nil {
			return nil, fmt.Errorf("payment provider %q: %w", id, err)
		}
		res.Providers++
	}

	l.logger.Infow("fixture loaded",
		"organizer", org.Slug(),
		"event", ev.Slug(),
		"event_id", ev.ID(),
		"items", res.Items,
		"providers", res.Providers,
	)
	return res, nil
}

func (l *Loader) organizer(ctx context.Context, f OrganizerFixture) (*event.Organizer, error) {
	org, err := l.events.GetOrganizerBySlug(ctx, f.Slug)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, event.ErrOrganizerNotFound) {
		return nil, err
	}

	org, err = event.NewOrganizer(f.Slug, f.Name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := l.events.CreateOrganizer(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func itemRequest(f ItemFixture, categories map[string]uint) (dto.ItemRequest, error) {
	req := dto.ItemRequest{
		Name:         f.Name,
		DefaultPrice: f.Price,
		TaxRate:      f.TaxRate,
		Active:       f.Active == nil || *f.Active,
		Admission:    f.Admission,
	}
	if f.Category != "" {
		id, ok := categories[f.Category]
		if !ok {
			return dto.ItemRequest{}, fmt.Errorf("item %q: unknown category %q", f.Key, f.Category)
		}
		req.CategoryID = &id
	}
	for _, v := range f.Variations {
		req.Variations = append(req.Variations, dto.VariationChange{
			Value:  v.Value,
			Active: v.Active == nil || *v.Active,
			Price:  v.Price,
		})
	}
	return req, nil
}

func resolveItems(keys []string, items map[string]uint) ([]uint, error) {
	ids := make([]uint, 0, len(keys))
	for _, k := range keys {
		id, ok := items[k]
		if !ok {
			return nil, fmt.Errorf("unknown item %q", k)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
