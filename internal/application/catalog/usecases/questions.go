package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type ListQuestionsUseCase struct {
	repo   catalog.QuestionRepository
	logger logger.Interface
}

func NewListQuestionsUseCase(repo catalog.QuestionRepository, logger logger.Interface) *ListQuestionsUseCase {
	return &ListQuestionsUseCase{repo: repo, logger: logger}
}

func (uc *ListQuestionsUseCase) Execute(ctx context.Context, eventID uint) ([]*dto.QuestionDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list questions", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to list questions")
	}
	return mapper.MapSlice(list, dto.ToQuestionDTO), nil
}

// checkItems rejects item ids that are not items of the event.
func checkItems(ctx context.Context, items catalog.ItemRepository, eventID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	list, err := items.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(list))
	for _, it := range list {
		known[it.ID()] = true
	}
	for _, id := range ids {
		if !known[id] {
			return apperrors.NewValidationError(catalog.ErrForeignEvent.Error(), fmt.Sprintf("item %d", id))
		}
	}
	return nil
}

func optionChanges(qtype catalog.QuestionType, changes []dto.OptionChange) ([]catalog.OptionChange, error) {
	out := make([]catalog.OptionChange, 0, len(changes))
	for _, ch := range changes {
		if !qtype.HasOptions() && !ch.Delete {
			return nil, apperrors.NewValidationError("options are only allowed for choice questions")
		}
		out = append(out, catalog.OptionChange{ID: ch.ID, Answer: ch.Answer, Delete: ch.Delete})
	}
	return out, nil
}

type CreateQuestionUseCase struct {
	repo   catalog.QuestionRepository
	items  catalog.ItemRepository
	logger logger.Interface
}

func NewCreateQuestionUseCase(repo catalog.QuestionRepository, items catalog.ItemRepository, logger logger.Interface) *CreateQuestionUseCase {
	return &CreateQuestionUseCase{repo: repo, items: items, logger: logger}
}

func (uc *CreateQuestionUseCase) Execute(ctx context.Context, eventID uint, req dto.QuestionRequest) (*dto.QuestionDTO, error) {
	if err := checkItems(ctx, uc.items, eventID, req.ItemIDs); err != nil {
		return nil, domainError(err)
	}
	qtype := catalog.QuestionType(req.Type)
	changes, err := optionChanges(qtype, req.Options)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list questions", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create question")
	}

	q, err := catalog.NewQuestion(eventID, req.Question, qtype, req.Required, req.ItemIDs, catalog.NextPosition(list))
	if err != nil {
		return nil, domainError(err)
	}
	if err := q.ApplyOptions(changes); err != nil {
		return nil, domainError(err)
	}
	if err := uc.repo.Create(ctx, q); err != nil {
		uc.logger.Errorw("failed to create question", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create question")
	}

	uc.logger.Infow("question created", "event_id", eventID, "question_id", q.ID())
	return dto.ToQuestionDTO(q), nil
}

type UpdateQuestionUseCase struct {
	repo   catalog.QuestionRepository
	items  catalog.ItemRepository
	logger logger.Interface
}

func NewUpdateQuestionUseCase(repo catalog.QuestionRepository, items catalog.ItemRepository, logger logger.Interface) *UpdateQuestionUseCase {
	return &UpdateQuestionUseCase{repo: repo, items: items, logger: logger}
}

// Execute also applies the option changes. Switching to a type without
// options drops the existing options.
func (uc *UpdateQuestionUseCase) Execute(ctx context.Context, eventID, id uint, req dto.QuestionRequest) (*dto.QuestionDTO, error) {
	q, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}
	if err := checkItems(ctx, uc.items, eventID, req.ItemIDs); err != nil {
		return nil, domainError(err)
	}
	qtype := catalog.QuestionType(req.Type)
	changes, err := optionChanges(qtype, req.Options)
	if err != nil {
		return nil, err
	}
	if !qtype.HasOptions() {
		for _, o := range q.Options() {
			changes = append(changes, catalog.OptionChange{ID: o.ID(), Delete: true})
		}
	}

	if err := q.Update(req.Question, qtype, req.Required, req.ItemIDs); err != nil {
		return nil, domainError(err)
	}
	if err := q.ApplyOptions(dedupeDeletes(changes)); err != nil {
		return nil, domainError(err)
	}
	if err := uc.repo.Update(ctx, q); err != nil {
		uc.logger.Errorw("failed to update question", "question_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update question")
	}
	return dto.ToQuestionDTO(q), nil
}

// dedupeDeletes keeps the first change per option id so an option deleted
// explicitly and implicitly is removed once.
func dedupeDeletes(changes []catalog.OptionChange) []catalog.OptionChange {
	seen := make(map[uint]bool, len(changes))
	out := changes[:0]
	for _, ch := range changes {
		if ch.ID != 0 {
			if seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
		}
		out = append(out, ch)
	}
	return out
}

type DeleteQuestionUseCase struct {
	repo   catalog.QuestionRepository
	logger logger.Interface
}

func NewDeleteQuestionUseCase(repo catalog.QuestionRepository, logger logger.Interface) *DeleteQuestionUseCase {
	return &DeleteQuestionUseCase{repo: repo, logger: logger}
}

func (uc *DeleteQuestionUseCase) Execute(ctx context.Context, eventID, id uint) error {
	if err := uc.repo.Delete(ctx, eventID, id); err != nil {
		if mapped := domainError(err); apperrors.IsAppError(mapped) {
			return mapped
		}
		uc.logger.Errorw("failed to delete question", "question_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete question")
	}
	uc.logger.Infow("question deleted", "event_id", eventID, "question_id", id)
	return nil
}

type MoveQuestionUseCase struct {
	repo   catalog.QuestionRepository
	tx     TransactionRunner
	logger logger.Interface
}

func NewMoveQuestionUseCase(repo catalog.QuestionRepository, tx TransactionRunner, logger logger.Interface) *MoveQuestionUseCase {
	return &MoveQuestionUseCase{repo: repo, tx: tx, logger: logger}
}

func (uc *MoveQuestionUseCase) Execute(ctx context.Context, eventID, id uint, up bool) ([]*dto.QuestionDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list questions", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to move question")
	}

	sorted, err := move(ctx, uc.tx, list, id, up, catalog.ErrQuestionNotFound, uc.repo.Update)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to move question", "question_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to move question")
	}
	return mapper.MapSlice(sorted, dto.ToQuestionDTO), nil
}

// QuestionStatsUseCase counts the distinct answers given to a question,
// most frequent first.
type QuestionStatsUseCase struct {
	repo   catalog.QuestionRepository
	orders order.Repository
	logger logger.Interface
}

func NewQuestionStatsUseCase(repo catalog.QuestionRepository, orders order.Repository, logger logger.Interface) *QuestionStatsUseCase {
	return &QuestionStatsUseCase{repo: repo, orders: orders, logger: logger}
}

// Execute limits the count to orders in status when it is not empty. Both
// the status code and its name are accepted.
func (uc *QuestionStatsUseCase) Execute(ctx context.Context, eventID, id uint, status string) (*dto.QuestionStatsDTO, error) {
	var filter vo.OrderStatus
	if status != "" {
		s, ok := vo.ParseOrderStatus(status)
		if !ok {
			return nil, apperrors.NewValidationError("unknown order status", status)
		}
		filter = s
	}

	q, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}

	counts, err := uc.orders.AnswerCounts(ctx, q.ID(), filter)
	if err != nil {
		uc.logger.Errorw("failed to count answers", "question_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to count answers")
	}

	out := &dto.QuestionStatsDTO{
		Question: dto.ToQuestionDTO(q),
		Status:   filter.String(),
		Answers:  make([]dto.AnswerCountDTO, 0, len(counts)),
	}
	for _, c := range counts {
		out.Total += c.Count
		out.Answers = append(out.Answers, dto.ToAnswerCountDTO(c))
	}
	return out, nil
}
