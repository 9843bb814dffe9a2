package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel is the GORM model for orders table
type OrderModel struct {
	ID              uint                 `gorm:"primaryKey;autoIncrement"`
	EventID         uint                 `gorm:"column:event_id;not null;uniqueIndex:idx_event_code"`
	Code            string               `gorm:"column:code;type:varchar(16);not null;uniqueIndex:idx_event_code"`
	Secret          string               `gorm:"column:secret;type:varchar(32);not null"`
	Email           string               `gorm:"column:email;type:varchar(254);not null"`
	Locale          string               `gorm:"column:locale;type:varchar(10)"`
	Status          string               `gorm:"column:status;type:varchar(3);not null;index"`
	Datetime        time.Time            `gorm:"column:datetime;not null"`
	Expires         time.Time            `gorm:"column:expires;not null;index"`
	Total           decimal.Decimal      `gorm:"column:total;type:decimal(10,2);not null"`
	PaymentFee      decimal.Decimal      `gorm:"column:payment_fee;type:decimal(10,2);not null"`
	PaymentProvider string               `gorm:"column:payment_provider;type:varchar(64)"`
	PaymentInfo     string               `gorm:"column:payment_info;type:text"`
	PaymentDate     *time.Time           `gorm:"column:payment_date"`
	Positions       []OrderPositionModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version         int                  `gorm:"column:version;not null;default:0"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderPositionModel struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement"`
	OrderID      uint                  `gorm:"column:order_id;not null;index"`
	ItemID       uint                  `gorm:"column:item_id;not null;index"`
	VariationID  *uint                 `gorm:"column:variation_id;index"`
	Price        decimal.Decimal       `gorm:"column:price;type:decimal(10,2);not null"`
	AttendeeName string                `gorm:"column:attendee_name;type:varchar(255)"`
	Answers      []QuestionAnswerModel `gorm:"foreignKey:PositionID;constraint:OnDelete:CASCADE"`
}

func (OrderPositionModel) TableName() string {
	return "order_positions"
}

// QuestionAnswerModel stores answers in their own table so statistics can
// group them in SQL.
type QuestionAnswerModel struct {
	ID         uint                      `gorm:"primaryKey;autoIncrement"`
	PositionID uint                      `gorm:"column:position_id;not null;index"`
	QuestionID uint                      `gorm:"column:question_id;not null;index"`
	Answer     string                    `gorm:"column:answer;type:text"`
	OptionIDs  datatypes.JSONSlice[uint] `gorm:"column:option_ids;type:text"`
}

func (QuestionAnswerModel) TableName() string {
	return "question_answers"
}
