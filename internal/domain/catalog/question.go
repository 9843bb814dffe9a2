package catalog

import (
	"time"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

type QuestionType string

const (
	QuestionNumber   QuestionType = "N"
	QuestionString   QuestionType = "S"
	QuestionText     QuestionType = "T"
	QuestionBoolean  QuestionType = "B"
	QuestionChoice   QuestionType = "C"
	QuestionMultiple QuestionType = "M"
)

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionNumber, QuestionString, QuestionText, QuestionBoolean, QuestionChoice, QuestionMultiple:
		return true
	}
	return false
}

// HasOptions reports whether answers are picked from options.
func (t QuestionType) HasOptions() bool {
	return t == QuestionChoice || t == QuestionMultiple
}

// Question is asked for every order position of the assigned items.
type Question struct {
	id        uint
	eventID   uint
	question  i18n.String
	qtype     QuestionType
	required  bool
	position  int
	itemIDs   []uint
	options   []*QuestionOption
	createdAt time.Time
	updatedAt time.Time
}

func NewQuestion(eventID uint, question i18n.String, qtype QuestionType, required bool, itemIDs []uint, position int) (*Question, error) {
	if question.IsEmpty() {
		return nil, ErrNameRequired
	}
	if !qtype.IsValid() {
		return nil, ErrInvalidType
	}
	now := biztime.NowUTC()
	return &Question{
		eventID:   eventID,
		question:  question,
		qtype:     qtype,
		required:  required,
		position:  position,
		itemIDs:   append([]uint(nil), itemIDs...),
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructQuestion(
	id, eventID uint,
	question i18n.String,
	qtype QuestionType,
	required bool,
	position int,
	itemIDs []uint,
	options []*QuestionOption,
	createdAt, updatedAt time.Time,
) *Question {
	return &Question{
		id:        id,
		eventID:   eventID,
		question:  question,
		qtype:     qtype,
		required:  required,
		position:  position,
		itemIDs:   itemIDs,
		options:   options,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (q *Question) Update(question i18n.String, qtype QuestionType, required bool, itemIDs []uint) error {
	if question.IsEmpty() {
		return ErrNameRequired
	}
	if !qtype.IsValid() {
		return ErrInvalidType
	}
	q.question = question
	q.qtype = qtype
	q.required = required
	q.itemIDs = append([]uint(nil), itemIDs...)
	q.updatedAt = biztime.NowUTC()
	return nil
}

// OptionChange describes the desired state of one option. A zero ID adds
// a new option, Delete removes an existing one.
type OptionChange struct {
	ID     uint
	Answer i18n.String
	Delete bool
}

// ApplyOptions updates, adds and removes options in the given order.
func (q *Question) ApplyOptions(changes []OptionChange) error {
	for _, ch := range changes {
		if ch.ID == 0 {
			if ch.Delete {
				continue
			}
			if ch.Answer.IsEmpty() {
				return ErrNameRequired
			}
			q.options = append(q.options, &QuestionOption{answer: ch.Answer, position: NextPosition(q.options)})
			continue
		}

		idx := q.optionIndex(ch.ID)
		if idx < 0 {
			return ErrOptionNotFound
		}
		if ch.Delete {
			q.options = append(q.options[:idx], q.options[idx+1:]...)
			continue
		}
		if ch.Answer.IsEmpty() {
			return ErrNameRequired
		}
		q.options[idx].answer = ch.Answer
	}
	q.updatedAt = biztime.NowUTC()
	return nil
}

func (q *Question) optionIndex(id uint) int {
	for i, o := range q.options {
		if o.id == id {
			return i
		}
	}
	return -1
}

// AppliesTo reports whether the question is asked for itemID.
func (q *Question) AppliesTo(itemID uint) bool {
	for _, id := range q.itemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

func (q *Question) ID() uint                   { return q.id }
func (q *Question) EventID() uint              { return q.eventID }
func (q *Question) Question() i18n.String      { return q.question }
func (q *Question) Type() QuestionType         { return q.qtype }
func (q *Question) Required() bool             { return q.required }
func (q *Question) Position() int              { return q.position }
func (q *Question) ItemIDs() []uint            { return q.itemIDs }
func (q *Question) Options() []*QuestionOption { return q.options }
func (q *Question) CreatedAt() time.Time       { return q.createdAt }
func (q *Question) UpdatedAt() time.Time       { return q.updatedAt }
func (q *Question) SetID(id uint)              { q.id = id }

func (q *Question) SetPosition(p int) {
	q.position = p
	q.updatedAt = biztime.NowUTC()
}

type QuestionOption struct {
	id       uint
	answer   i18n.String
	position int
}

func ReconstructQuestionOption(id uint, answer i18n.String, position int) *QuestionOption {
	return &QuestionOption{id: id, answer: answer, position: position}
}

func (o *QuestionOption) ID() uint            { return o.id }
func (o *QuestionOption) Answer() i18n.String { return o.answer }
func (o *QuestionOption) Position() int       { return o.position }
func (o *QuestionOption) SetID(id uint)       { o.id = id }
func (o *QuestionOption) SetPosition(p int)   { o.position = p }
