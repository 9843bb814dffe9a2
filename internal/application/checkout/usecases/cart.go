package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	catalogUsecases "github.com/orris-inc/ticketry/internal/application/catalog/usecases"
	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const (
	// cartKey and providerKey live outside every provider namespace.
	cartKey     = "cart"
	providerKey = "payment"
)

var errEmptyCart = apperrors.NewValidationError("your cart is empty")

// loadCart returns the positions stored in s. A corrupt cart is treated as
// empty.
func loadCart(s *payment.Session) []payment.CartPosition {
	raw, ok := s.Get(cartKey)
	if !ok || raw == "" {
		return nil
	}
	var positions []payment.CartPosition
	if err := json.Unmarshal([]byte(raw), &positions); err != nil {
		s.Delete(cartKey)
		return nil
	}
	return positions
}

func storeCart(s *payment.Session, positions []payment.CartPosition) error {
	if len(positions) == 0 {
		s.Delete(cartKey)
		return nil
	}
	raw, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	s.Set(cartKey, string(raw))
	return nil
}

type AddToCartUseCase struct {
	items     catalog.ItemRepository
	questions catalog.QuestionRepository
	quotas    catalog.QuotaRepository
	usage     *catalogUsecases.QuotaUsage
	logger    logger.Interface
}

func NewAddToCartUseCase(
	items catalog.ItemRepository,
	questions catalog.QuestionRepository,
	quotas catalog.QuotaRepository,
	usage *catalogUsecases.QuotaUsage,
	logger logger.Interface,
) *AddToCartUseCase {
	return &AddToCartUseCase{
		items:     items,
		questions: questions,
		quotas:    quotas,
		usage:     usage,
		logger:    logger,
	}
}

// Execute checks the item, its variation, the required questions and every
// quota covering the item before the positions are added.
func (uc *AddToCartUseCase) Execute(ctx context.Context, scope *common.EventScope, s *payment.Session, req dto.AddToCartRequest) (*dto.CartDTO, error) {
	if !scope.Event.PresaleOpen(biztime.NowUTC()) {
		return nil, apperrors.NewConflictError("the presale for this event is over")
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}

	eventID := scope.Event.ID()
	it, err := uc.items.GetByID(ctx, eventID, req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("item not found")
		}
		uc.logger.Errorw("failed to load item", "item_id", req.ItemID, "error", err)
		return nil, apperrors.NewInternalError("failed to add to cart")
	}
	if !it.Active() {
		return nil, apperrors.NewValidationError("this item is not available")
	}

	pos, err := uc.position(it, req, scope.Event.Locale())
	if err != nil {
		return nil, err
	}
	answers, err := uc.answers(ctx, eventID, it.ID(), req.Answers, scope.Event.Locale())
	if err != nil {
		return nil, err
	}
	pos.Answers = answers

	cart := loadCart(s)
	if err := uc.checkQuotas(ctx, eventID, cart, pos, count); err != nil {
		return nil, err
	}

	for i := 0; i < count; i++ {
		cart = append(cart, pos)
	}
	if err := storeCart(s, cart); err != nil {
		return nil, apperrors.NewInternalError("failed to add to cart")
	}

	uc.logger.Debugw("added to cart", "event_id", eventID, "item_id", it.ID(), "count", count)
	return dto.ToCartDTO(payment.NewCartSnapshot(cart, decimal.Zero)), nil
}

func (uc *AddToCartUseCase) position(it *catalog.Item, req dto.AddToCartRequest, locale string) (payment.CartPosition, error) {
	pos := payment.CartPosition{
		ItemID:       it.ID(),
		VariationID:  req.VariationID,
		ItemName:     it.Name().Localize(locale),
		AttendeeName: strings.TrimSpace(req.AttendeeName),
	}

	switch {
	case len(it.Variations()) > 0 && req.VariationID == nil:
		return pos, apperrors.NewValidationError("select a variation")
	case len(it.Variations()) == 0 && req.VariationID != nil:
		return pos, apperrors.NewValidationError(catalog.ErrVariationNotFound.Error())
	case req.VariationID != nil:
		v, ok := it.Variation(*req.VariationID)
		if !ok {
			return pos, apperrors.NewValidationError(catalog.ErrVariationNotFound.Error())
		}
		if !v.Active() {
			return pos, apperrors.NewValidationError("this variation is not available")
		}
		pos.VariationName = v.Value().Localize(locale)
	}

	price, err := it.PriceFor(req.VariationID)
	if err != nil {
		return pos, apperrors.NewValidationError(err.Error())
	}
	pos.Price = price
	return pos, nil
}

// answers validates the answers to the questions asked for itemID. Choice
// answers store the chosen option texts so statistics group by them.
func (uc *AddToCartUseCase) answers(ctx context.Context, eventID, itemID uint, in []dto.AnswerInput, locale string) ([]order.Answer, error) {
	questions, err := uc.questions.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list questions", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to add to cart")
	}

	given := make(map[uint]dto.AnswerInput, len(in))
	for _, a := range in {
		given[a.QuestionID] = a
	}

	asked := make(map[uint]bool)
	var out []order.Answer
	for _, q := range questions {
		if !q.AppliesTo(itemID) {
			continue
		}
		asked[q.ID()] = true
		a, ok := given[q.ID()]

		answer, err := normalizeAnswer(q, a, locale)
		if err != nil {
			return nil, err
		}
		if !ok || answer.Answer == "" {
			if q.Required() {
				return nil, apperrors.NewValidationError("answer is required", q.Question().Localize(locale))
			}
			continue
		}
		out = append(out, answer)
	}
	for _, a := range in {
		if !asked[a.QuestionID] {
			return nil, apperrors.NewValidationError("question does not apply to this item", fmt.Sprintf("question %d", a.QuestionID))
		}
	}
	return out, nil
}

func normalizeAnswer(q *catalog.Question, a dto.AnswerInput, locale string) (order.Answer, error) {
	out := order.Answer{QuestionID: q.ID()}
	text := strings.TrimSpace(a.Answer)
	label := q.Question().Localize(locale)

	switch q.Type() {
	case catalog.QuestionNumber:
		if text == "" {
			return out, nil
		}
		if _, err := decimal.NewFromString(text); err != nil {
			return out, apperrors.NewValidationError("enter a number", label)
		}
		out.Answer = text
	case catalog.QuestionBoolean:
		if text == "" {
			return out, nil
		}
		v, err := strconv.ParseBool(text)
		if err != nil {
			return out, apperrors.NewValidationError("enter yes or no", label)
		}
		// A required boolean question has to be confirmed.
		if !v && q.Required() {
			return out, nil
		}
		out.Answer = strconv.FormatBool(v)
	case catalog.QuestionChoice, catalog.QuestionMultiple:
		if len(a.OptionIDs) == 0 {
			return out, nil
		}
		if q.Type() == catalog.QuestionChoice && len(a.OptionIDs) > 1 {
			return out, apperrors.NewValidationError("select only one option", label)
		}
		texts := make([]string, 0, len(a.OptionIDs))
		for _, id := range a.OptionIDs {
			opt, ok := findOption(q, id)
			if !ok {
				return out, apperrors.NewValidationError(catalog.ErrOptionNotFound.Error(), label)
			}
			texts = append(texts, opt.Answer().Localize(locale))
		}
		out.OptionIDs = append([]uint(nil), a.OptionIDs...)
		out.Answer = strings.Join(texts, ", ")
	default:
		out.Answer = text
	}
	return out, nil
}

func findOption(q *catalog.Question, id uint) (*catalog.QuestionOption, bool) {
	for _, o := range q.Options() {
		if o.ID() == id {
			return o, true
		}
	}
	return nil, false
}

// checkQuotas counts paid and pending orders plus the visitor's own cart
// against every quota covering pos.
func (uc *AddToCartUseCase) checkQuotas(ctx context.Context, eventID uint, cart []payment.CartPosition, pos payment.CartPosition, count int) error {
	quotas, err := uc.quotas.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list quotas", "event_id", eventID, "error", err)
		return apperrors.NewInternalError("failed to add to cart")
	}

	for _, q := range quotas {
		if !catalogUsecases.Covers(q, pos.ItemID, pos.VariationID) {
			continue
		}
		if q.Size() == nil {
			continue
		}
		used, err := uc.usage.Count(ctx, q, vo.OrderStatusPaid, vo.OrderStatusPending)
		if err != nil {
			uc.logger.Errorw("failed to count quota usage", "quota_id", q.ID(), "error", err)
			return apperrors.NewInternalError("failed to add to cart")
		}
		for _, p := range cart {
			if catalogUsecases.Covers(q, p.ItemID, p.VariationID) {
				used++
			}
		}
		if left := q.Available(used); *left < int64(count) {
			return apperrors.NewConflictError("not enough tickets left", fmt.Sprintf("%d available", *left))
		}
	}
	return nil
}

type ListCartUseCase struct{}

func NewListCartUseCase() *ListCartUseCase {
	return &ListCartUseCase{}
}

func (uc *ListCartUseCase) Execute(s *payment.Session) *dto.CartDTO {
	return dto.ToCartDTO(payment.NewCartSnapshot(loadCart(s), decimal.Zero))
}

type ClearCartUseCase struct {
	logger logger.Interface
}

func NewClearCartUseCase(logger logger.Interface) *ClearCartUseCase {
	return &ClearCartUseCase{logger: logger}
}

// Execute empties the cart and forgets the chosen payment method.
func (uc *ClearCartUseCase) Execute(s *payment.Session) {
	s.Delete(cartKey)
	s.Delete(providerKey)
	uc.logger.Debugw("cart cleared", "session_id", s.ID())
}
