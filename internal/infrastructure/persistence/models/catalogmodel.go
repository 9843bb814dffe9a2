package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

type CategoryModel struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"`
	EventID   uint        `gorm:"column:event_id;not null;index"`
	Name      i18n.String `gorm:"column:name;type:text;not null"`
	Position  int         `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (CategoryModel) TableName() string {
	return "item_categories"
}

type ItemModel struct {
	ID           uint                 `gorm:"primaryKey;autoIncrement"`
	EventID      uint                 `gorm:"column:event_id;not null;index"`
	CategoryID   *uint                `gorm:"column:category_id;index"`
	Name         i18n.String          `gorm:"column:name;type:text;not null"`
	DefaultPrice decimal.Decimal      `gorm:"column:default_price;type:decimal(10,2);not null"`
	TaxRate      decimal.Decimal      `gorm:"column:tax_rate;type:decimal(7,2);not null"`
	Active       bool                 `gorm:"column:active;not null;default:true"`
	Admission    bool                 `gorm:"column:admission;not null;default:false"`
	Position     int                  `gorm:"column:position;not null;default:0"`
	Variations   []ItemVariationModel `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (ItemModel) TableName() string {
	return "items"
}

type ItemVariationModel struct {
	ID           uint             `gorm:"primaryKey;autoIncrement"`
	ItemID       uint             `gorm:"column:item_id;not null;index"`
	Value        i18n.String      `gorm:"column:value;type:text;not null"`
	Active       bool             `gorm:"column:active;not null;default:true"`
	DefaultPrice *decimal.Decimal `gorm:"column:default_price;type:decimal(10,2)"`
	Position     int              `gorm:"column:position;not null;default:0"`
}

func (ItemVariationModel) TableName() string {
	return "item_variations"
}

type QuestionModel struct {
	ID        uint                      `gorm:"primaryKey;autoIncrement"`
	EventID   uint                      `gorm:"column:event_id;not null;index"`
	Question  i18n.String               `gorm:"column:question;type:text;not null"`
	Type      string                    `gorm:"column:type;type:varchar(5);not null"`
	Required  bool                      `gorm:"column:required;not null;default:false"`
	Position  int                       `gorm:"column:position;not null;default:0"`
	ItemIDs   datatypes.JSONSlice[uint] `gorm:"column:item_ids;type:text"`
	Options   []QuestionOptionModel     `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

type QuestionOptionModel struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"`
	QuestionID uint        `gorm:"column:question_id;not null;index"`
	Answer     i18n.String `gorm:"column:answer;type:text;not null"`
	Position   int         `gorm:"column:position;not null;default:0"`
}

func (QuestionOptionModel) TableName() string {
	return "question_options"
}

type QuotaModel struct {
	ID           uint                      `gorm:"primaryKey;autoIncrement"`
	EventID      uint                      `gorm:"column:event_id;not null;index"`
	Name         string                    `gorm:"column:name;type:varchar(200);not null"`
	Size         *int                      `gorm:"column:size"`
	ItemIDs      datatypes.JSONSlice[uint] `gorm:"column:item_ids;type:text"`
	VariationIDs datatypes.JSONSlice[uint] `gorm:"column:variation_ids;type:text"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (QuotaModel) TableName() string {
	return "quotas"
}
