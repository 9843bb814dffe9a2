package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
)

func OrderToModel(o *order.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:              o.ID(),
		EventID:         o.EventID(),
		Code:            o.Code(),
		Secret:          o.Secret(),
		Email:           o.Email(),
		Locale:          o.Locale(),
		Status:          o.Status().String(),
		Datetime:        o.Datetime(),
		Expires:         o.Expires(),
		Total:           o.Total(),
		PaymentFee:      o.PaymentFee(),
		PaymentProvider: o.PaymentProvider(),
		PaymentInfo:     o.PaymentInfo(),
		PaymentDate:     o.PaymentDate(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	for _, p := range o.Positions() {
		pm := models.OrderPositionModel{
			ID:           p.ID(),
			OrderID:      o.ID(),
			ItemID:       p.ItemID(),
			VariationID:  p.VariationID(),
			Price:        p.Price(),
			AttendeeName: p.AttendeeName(),
		}
		for _, a := range p.Answers() {
			pm.Answers = append(pm.Answers, models.QuestionAnswerModel{
				QuestionID: a.QuestionID,
				Answer:     a.Answer,
				OptionIDs:  datatypes.NewJSONSlice(a.OptionIDs),
			})
		}
		model.Positions = append(model.Positions, pm)
	}
	return model
}

func OrderToDomain(m *models.OrderModel) (*order.Order, error) {
	status := vo.OrderStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid order status: %s", m.Status)
	}

	positions := make([]*order.Position, 0, len(m.Positions))
	for _, pm := range m.Positions {
		answers := make([]order.Answer, 0, len(pm.Answers))
		for _, am := range pm.Answers {
			answers = append(answers, order.Answer{
				QuestionID: am.QuestionID,
				Answer:     am.Answer,
				OptionIDs:  []uint(am.OptionIDs),
			})
		}
		positions = append(positions, order.ReconstructPosition(
			pm.ID, pm.ItemID, pm.VariationID, pm.Price, pm.AttendeeName, answers))
	}

	return order.ReconstructOrder(
		m.ID,
		m.Code,
		m.Secret,
		m.EventID,
		m.Email,
		m.Locale,
		status,
		m.Datetime.UTC(),
		m.Expires.UTC(),
		m.Total,
		m.PaymentFee,
		m.PaymentProvider,
		m.PaymentInfo,
		m.PaymentDate,
		positions,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
