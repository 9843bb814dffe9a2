package models

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&OrganizerModel{},
		&EventModel{},
		&EventSettingModel{},
		&CategoryModel{},
		&ItemModel{},
		&ItemVariationModel{},
		&QuestionModel{},
		&QuestionOptionModel{},
		&QuotaModel{},
		&OrderModel{},
		&OrderPositionModel{},
		&QuestionAnswerModel{},
	}
}
