package mappers

import (
	"gorm.io/datatypes"

	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

func CategoryToModel(c *catalog.Category) *models.CategoryModel {
	return &models.CategoryModel{
		ID:        c.ID(),
		EventID:   c.EventID(),
		Name:      c.Name(),
		Position:  c.Position(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func CategoryToDomain(m *models.CategoryModel) *catalog.Category {
	return catalog.ReconstructCategory(m.ID, m.EventID, m.Name, m.Position, m.CreatedAt, m.UpdatedAt)
}

func ItemToModel(i *catalog.Item) *models.ItemModel {
	model := &models.ItemModel{
		ID:           i.ID(),
		EventID:      i.EventID(),
		CategoryID:   i.CategoryID(),
		Name:         i.Name(),
		DefaultPrice: i.DefaultPrice(),
		TaxRate:      i.TaxRate(),
		Active:       i.Active(),
		Admission:    i.Admission(),
		Position:     i.Position(),
		CreatedAt:    i.CreatedAt(),
		UpdatedAt:    i.UpdatedAt(),
	}
	for _, v := range i.Variations() {
		model.Variations = append(model.Variations, models.ItemVariationModel{
			ID:           v.ID(),
			ItemID:       i.ID(),
			Value:        v.Value(),
			Active:       v.Active(),
			DefaultPrice: v.Price(),
			Position:     v.Position(),
		})
	}
	return model
}

func ItemToDomain(m *models.ItemModel) *catalog.Item {
	variations := make([]*catalog.Variation, 0, len(m.Variations))
	for _, v := range m.Variations {
		variations = append(variations, catalog.ReconstructVariation(v.ID, v.Value, v.Active, v.DefaultPrice, v.Position))
	}
	catalog.SortByPosition(variations)

	return catalog.ReconstructItem(m.ID, m.EventID, catalog.ItemParams{
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		DefaultPrice: m.DefaultPrice,
		TaxRate:      m.TaxRate,
		Active:       m.Active,
		Admission:    m.Admission,
	}, m.Position, variations, m.CreatedAt, m.UpdatedAt)
}

func QuestionToModel(q *catalog.Question) *models.QuestionModel {
	model := &models.QuestionModel{
		ID:        q.ID(),
		EventID:   q.EventID(),
		Question:  q.Question(),
		Type:      string(q.Type()),
		Required:  q.Required(),
		Position:  q.Position(),
		ItemIDs:   datatypes.NewJSONSlice(q.ItemIDs()),
		CreatedAt: q.CreatedAt(),
		UpdatedAt: q.UpdatedAt(),
	}
	for _, o := range q.Options() {
		model.Options = append(model.Options, models.QuestionOptionModel{
			ID:         o.ID(),
			QuestionID: q.ID(),
			Answer:     o.Answer(),
			Position:   o.Position(),
		})
	}
	return model
}

func QuestionToDomain(m *models.QuestionModel) *catalog.Question {
	options := make([]*catalog.QuestionOption, 0, len(m.Options))
	for _, o := range m.Options {
		options = append(options, catalog.ReconstructQuestionOption(o.ID, o.Answer, o.Position))
	}
	catalog.SortByPosition(options)

	return catalog.ReconstructQuestion(
		m.ID,
		m.EventID,
		m.Question,
		catalog.QuestionType(m.Type),
		m.Required,
		m.Position,
		[]uint(m.ItemIDs),
		options,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func QuotaToModel(q *catalog.Quota) *models.QuotaModel {
	return &models.QuotaModel{
		ID:           q.ID(),
		EventID:      q.EventID(),
		Name:         q.Name(),
		Size:         q.Size(),
		ItemIDs:      datatypes.NewJSONSlice(q.ItemIDs()),
		VariationIDs: datatypes.NewJSONSlice(q.VariationIDs()),
		CreatedAt:    q.CreatedAt(),
		UpdatedAt:    q.UpdatedAt(),
	}
}

func QuotaToDomain(m *models.QuotaModel) *catalog.Quota {
	return catalog.ReconstructQuota(m.ID, m.EventID, m.Name, m.Size,
		[]uint(m.ItemIDs), []uint(m.VariationIDs), m.CreatedAt, m.UpdatedAt)
}

func CategoriesToDomain(list []*models.CategoryModel) []*catalog.Category {
	return mapper.MapSlice(list, CategoryToDomain)
}

func ItemsToDomain(list []*models.ItemModel) []*catalog.Item {
	return mapper.MapSlice(list, ItemToDomain)
}

func QuestionsToDomain(list []*models.QuestionModel) []*catalog.Question {
	return mapper.MapSlice(list, QuestionToDomain)
}

func QuotasToDomain(list []*models.QuotaModel) []*catalog.Quota {
	return mapper.MapSlice(list, QuotaToDomain)
}
