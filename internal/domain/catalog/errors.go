package catalog

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrVariationNotFound = errors.New("variation not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrOptionNotFound    = errors.New("question option not found")
	ErrQuotaNotFound     = errors.New("quota not found")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidType       = errors.New("invalid question type")
	ErrForeignEvent      = errors.New("referenced object belongs to another event")
)
