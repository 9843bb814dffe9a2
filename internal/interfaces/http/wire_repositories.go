package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	events     *repository.EventRepository
	settings   *repository.EventSettingRepository
	categories *repository.CategoryRepository
	items      *repository.ItemRepository
	questions  *repository.QuestionRepository
	quotas     *repository.QuotaRepository
	orders     *repository.OrderRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		events:     repository.NewEventRepository(db),
		settings:   repository.NewEventSettingRepository(db, log),
		categories: repository.NewCategoryRepository(db),
		items:      repository.NewItemRepository(db),
		questions:  repository.NewQuestionRepository(db),
		quotas:     repository.NewQuotaRepository(db),
		orders:     repository.NewOrderRepository(db),
	}
}
