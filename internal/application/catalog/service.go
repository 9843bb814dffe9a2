// Package catalog exposes the catalog administration of an event to the
// control API.
package catalog

import (
	"context"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/application/catalog/usecases"
	domain "github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

type Repositories struct {
	Categories domain.CategoryRepository
	Items      domain.ItemRepository
	Questions  domain.QuestionRepository
	Quotas     domain.QuotaRepository
	Orders     order.Repository
}

type ServiceDDD struct {
	listCategories *usecases.ListCategoriesUseCase
	createCategory *usecases.CreateCategoryUseCase
	updateCategory *usecases.UpdateCategoryUseCase
	deleteCategory *usecases.DeleteCategoryUseCase
	moveCategory   *usecases.MoveCategoryUseCase

	listItems  *usecases.ListItemsUseCase
	getItem    *usecases.GetItemUseCase
	createItem *usecases.CreateItemUseCase
	updateItem *usecases.UpdateItemUseCase
	deleteItem *usecases.DeleteItemUseCase
	moveItem   *usecases.MoveItemUseCase

	listQuestions  *usecases.ListQuestionsUseCase
	createQuestion *usecases.CreateQuestionUseCase
	updateQuestion *usecases.UpdateQuestionUseCase
	deleteQuestion *usecases.DeleteQuestionUseCase
	moveQuestion   *usecases.MoveQuestionUseCase
	questionStats  *usecases.QuestionStatsUseCase

	listQuotas        *usecases.ListQuotasUseCase
	createQuota       *usecases.CreateQuotaUseCase
	updateQuota       *usecases.UpdateQuotaUseCase
	deleteQuota       *usecases.DeleteQuotaUseCase
	quotaAvailability *usecases.QuotaAvailabilityUseCase
}

func NewServiceDDD(repos Repositories, tx usecases.TransactionRunner, logger logger.Interface) *ServiceDDD {
	usage := usecases.NewQuotaUsage(repos.Items, repos.Orders)
	return &ServiceDDD{
		listCategories: usecases.NewListCategoriesUseCase(repos.Categories, logger),
		createCategory: usecases.NewCreateCategoryUseCase(repos.Categories, logger),
		updateCategory: usecases.NewUpdateCategoryUseCase(repos.Categories, logger),
		deleteCategory: usecases.NewDeleteCategoryUseCase(repos.Categories, repos.Items, tx, logger),
		moveCategory:   usecases.NewMoveCategoryUseCase(repos.Categories, tx, logger),

		listItems:  usecases.NewListItemsUseCase(repos.Items, logger),
		getItem:    usecases.NewGetItemUseCase(repos.Items),
		createItem: usecases.NewCreateItemUseCase(repos.Items, repos.Categories, logger),
		updateItem: usecases.NewUpdateItemUseCase(repos.Items, repos.Categories, logger),
		deleteItem: usecases.NewDeleteItemUseCase(repos.Items, repos.Orders, logger),
		moveItem:   usecases.NewMoveItemUseCase(repos.Items, tx, logger),

		listQuestions:  usecases.NewListQuestionsUseCase(repos.Questions, logger),
		createQuestion: usecases.NewCreateQuestionUseCase(repos.Questions, repos.Items, logger),
		updateQuestion: usecases.NewUpdateQuestionUseCase(repos.Questions, repos.Items, logger),
		deleteQuestion: usecases.NewDeleteQuestionUseCase(repos.Questions, logger),
		moveQuestion:   usecases.NewMoveQuestionUseCase(repos.Questions, tx, logger),
		questionStats:  usecases.NewQuestionStatsUseCase(repos.Questions, repos.Orders, logger),

		listQuotas:        usecases.NewListQuotasUseCase(repos.Quotas, logger),
		createQuota:       usecases.NewCreateQuotaUseCase(repos.Quotas, repos.Items, logger),
		updateQuota:       usecases.NewUpdateQuotaUseCase(repos.Quotas, repos.Items, logger),
		deleteQuota:       usecases.NewDeleteQuotaUseCase(repos.Quotas, logger),
		quotaAvailability: usecases.NewQuotaAvailabilityUseCase(repos.Quotas, usage, logger),
	}
}

func (s *ServiceDDD) ListCategories(ctx context.Context, eventID uint) ([]*dto.CategoryDTO, error) {
	return s.listCategories.Execute(ctx, eventID)
}

func (s *ServiceDDD) CreateCategory(ctx context.Context, eventID uint, req dto.CategoryRequest) (*dto.CategoryDTO, error) {
	return s.createCategory.Execute(ctx, eventID, req)
}

func (s *ServiceDDD) UpdateCategory(ctx context.Context, eventID, id uint, req dto.CategoryRequest) (*dto.CategoryDTO, error) {
	return s.updateCategory.Execute(ctx, eventID, id, req)
}

func (s *ServiceDDD) DeleteCategory(ctx context.Context, eventID, id uint) error {
	return s.deleteCategory.Execute(ctx, eventID, id)
}

func (s *ServiceDDD) MoveCategory(ctx context.Context, eventID, id uint, up bool) ([]*dto.CategoryDTO, error) {
	return s.moveCategory.Execute(ctx, eventID, id, up)
}

func (s *ServiceDDD) ListItems(ctx context.Context, eventID uint) ([]*dto.ItemDTO, error) {
	return s.listItems.Execute(ctx, eventID)
}

func (s *ServiceDDD) GetItem(ctx context.Context, eventID, id uint) (*dto.ItemDTO, error) {
	return s.getItem.Execute(ctx, eventID, id)
}

func (s *ServiceDDD) CreateItem(ctx context.Context, eventID uint, req dto.ItemRequest) (*dto.ItemDTO, error) {
	return s.createItem.Execute(ctx, eventID, req)
}

func (s *ServiceDDD) UpdateItem(ctx context.Context, eventID, id uint, req dto.ItemRequest) (*dto.ItemDTO, error) {
	return s.updateItem.Execute(ctx, eventID, id, req)
}

func (s *ServiceDDD) DeleteItem(ctx context.Context, eventID, id uint) (*dto.DeleteItemResult, error) {
	return s.deleteItem.Execute(ctx, eventID, id)
}

func (s *ServiceDDD) MoveItem(ctx context.Context, eventID, id uint, up bool) ([]*dto.ItemDTO, error) {
	return s.moveItem.Execute(ctx, eventID, id, up)
}

func (s *ServiceDDD) ListQuestions(ctx context.Context, eventID uint) ([]*dto.QuestionDTO, error) {
	return s.listQuestions.Execute(ctx, eventID)
}

func (s *ServiceDDD) CreateQuestion(ctx context.Context, eventID uint, req dto.QuestionRequest) (*dto.QuestionDTO, error) {
	return s.createQuestion.Execute(ctx, eventID, req)
}

func (s *ServiceDDD) UpdateQuestion(ctx context.Context, eventID, id uint, req dto.QuestionRequest) (*dto.QuestionDTO, error) {
	return s.updateQuestion.Execute(ctx, eventID, id, req)
}

func (s *ServiceDDD) DeleteQuestion(ctx context.Context, eventID, id uint) error {
	return s.deleteQuestion.Execute(ctx, eventID, id)
}

func (s *ServiceDDD) MoveQuestion(ctx context.Context, eventID, id uint, up bool) ([]*dto.QuestionDTO, error) {
	return s.moveQuestion.Execute(ctx, eventID, id, up)
}

func (s *ServiceDDD) QuestionStats(ctx context.Context, eventID, id uint, status string) (*dto.QuestionStatsDTO, error) {
	return s.questionStats.Execute(ctx, eventID, id, status)
}

func (s *ServiceDDD) ListQuotas(ctx context.Context, eventID uint) ([]*dto.QuotaDTO, error) {
	return s.listQuotas.Execute(ctx, eventID)
}

func (s *ServiceDDD) CreateQuota(ctx context.Context, eventID uint, req dto.QuotaRequest) (*dto.QuotaDTO, error) {
	return s.createQuota.Execute(ctx, eventID, req)
}

func (s *ServiceDDD) UpdateQuota(ctx context.Context, eventID, id uint, req dto.QuotaRequest) (*dto.QuotaDTO, error) {
	return s.updateQuota.Execute(ctx, eventID, id, req)
}

func (s *ServiceDDD) DeleteQuota(ctx context.Context, eventID, id uint) error {
	return s.deleteQuota.Execute(ctx, eventID, id)
}

func (s *ServiceDDD) QuotaAvailability(ctx context.Context, eventID, id uint) (*dto.QuotaAvailabilityDTO, error) {
	return s.quotaAvailability.Execute(ctx, eventID, id)
}
