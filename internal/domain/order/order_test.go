package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	p1, err := NewPosition(1, nil, decimal.RequireFromString("23.00"), "Peter", []Answer{{QuestionID: 3, Answer: "M"}})
	require.NoError(t, err)
	p2, err := NewPosition(2, nil, decimal.RequireFromString("12.00"), "", nil)
	require.NoError(t, err)

	o, err := NewOrder(7, "dummy@example.org", "de", "banktransfer", "EUR", decimal.RequireFromString("1.234"), []*Position{p1, p2}, time.Hour)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	restore := biztime.SetNowFunc(func() time.Time { return fixed })
	defer restore()

	o := newTestOrder(t)

	assert.Len(t, o.Code(), 5)
	assert.Len(t, o.Secret(), 16)
	assert.Equal(t, vo.OrderStatusPending, o.Status())
	assert.Equal(t, "1.23", o.PaymentFee().StringFixed(2))
	assert.Equal(t, "36.23", o.Total().StringFixed(2))
	assert.Equal(t, "35.00", o.Subtotal().StringFixed(2))
	assert.Equal(t, fixed.Add(time.Hour), o.Expires())
	assert.True(t, o.IsExpired(fixed.Add(2*time.Hour)))
	assert.False(t, o.IsExpired(fixed))
}

func TestNewOrder_FeeFollowsCurrencyScale(t *testing.T) {
	p, err := NewPosition(1, nil, decimal.NewFromInt(1500), "", nil)
	require.NoError(t, err)

	o, err := NewOrder(1, "a@b.c", "ja", "stripe", "JPY", decimal.RequireFromString("45.6"), []*Position{p}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "46", o.PaymentFee().String())
	assert.Equal(t, "1546", o.Total().String())
}

func TestNewOrder_Validation(t *testing.T) {
	p, err := NewPosition(1, nil, decimal.NewFromInt(5), "", nil)
	require.NoError(t, err)

	_, err = NewOrder(1, "a@b.c", "en", "banktransfer", "EUR", decimal.Zero, nil, time.Hour)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewOrder(1, "a@b.c", "en", "", "EUR", decimal.Zero, []*Position{p}, time.Hour)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewOrder(1, "", "en", "banktransfer", "EUR", decimal.Zero, []*Position{p}, time.Hour)
	assert.Error(t, err)

	_, err = NewPosition(0, nil, decimal.Zero, "", nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = NewPosition(1, nil, decimal.NewFromInt(-1), "", nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	o := newTestOrder(t)
	v := o.Version()

	changed, err := o.MarkPaid("sepadebit", `{"iban":"DE89"}`)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, vo.OrderStatusPaid, o.Status())
	assert.Equal(t, "sepadebit", o.PaymentProvider())
	assert.Equal(t, `{"iban":"DE89"}`, o.PaymentInfo())
	require.NotNil(t, o.PaymentDate())
	assert.Equal(t, v+1, o.Version())

	changed, err = o.MarkPaid("sepadebit", `{"iban":"other"}`)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, `{"iban":"DE89"}`, o.PaymentInfo())
	assert.Equal(t, v+1, o.Version())

	_, err = o.MarkPaid("stripe", "")
	assert.ErrorIs(t, err, ErrPaidByOther)
}

func TestMarkPaid_KeepsExistingInfo(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.SetPaymentInfo("cs_test_123"))

	_, err := o.MarkPaid("stripe", "")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", o.PaymentInfo())
}

func TestTransitionsOutOfFinalStates(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Expire())
	assert.Equal(t, vo.OrderStatusExpired, o.Status())

	_, err := o.MarkPaid("banktransfer", "")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.ErrorIs(t, o.Expire(), ErrNotPending)
	assert.ErrorIs(t, o.Cancel(), ErrNotPending)
	assert.ErrorIs(t, o.SetPaymentInfo("x"), ErrNotPending)

	paid := newTestOrder(t)
	_, err = paid.MarkPaid("banktransfer", "")
	require.NoError(t, err)
	assert.ErrorIs(t, paid.Cancel(), ErrNotPending)
	assert.ErrorIs(t, paid.Expire(), ErrNotPending)
}

func TestClone_IsDeep(t *testing.T) {
	o := newTestOrder(t)
	c := o.Clone()

	_, err := c.MarkPaid("banktransfer", "ref")
	require.NoError(t, err)
	c.Positions()[0].answers[0].Answer = "XL"

	assert.Equal(t, vo.OrderStatusPending, o.Status())
	assert.Empty(t, o.PaymentInfo())
	assert.Nil(t, o.PaymentDate())
	assert.Equal(t, "M", o.Positions()[0].Answers()[0].Answer)
	assert.Equal(t, o.Version()+1, c.Version())
}

func TestEvents(t *testing.T) {
	o := newTestOrder(t)

	placed := NewPlacedEvent(o)
	assert.Equal(t, EventTypePlaced, placed.GetEventType())
	assert.Equal(t, o.Code(), placed.GetAggregateID())
	assert.True(t, placed.Total.Equal(o.Total()))

	assert.Equal(t, EventTypePaid, NewPaidEvent(o).GetEventType())
	assert.Equal(t, EventTypeExpired, NewExpiredEvent(o).GetEventType())
}
