package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/id"
	"github.com/orris-inc/ticketry/internal/shared/money"
)

// Order is the aggregate the payment providers act upon. It only leaves the
// pending state through MarkPaid, Expire or Cancel.
type Order struct {
	id              uint
	code            string
	secret          string
	eventID         uint
	email           string
	locale          string
	status          vo.OrderStatus
	datetime        time.Time
	expires         time.Time
	total           decimal.Decimal
	paymentFee      decimal.Decimal
	paymentProvider string
	paymentInfo     string
	paymentDate     *time.Time
	positions       []*Position

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewOrder creates a pending order. The total is the sum of all position
// prices plus the payment fee, which is rounded to cents.
func NewOrder(eventID uint, email, locale, provider, currency string, fee decimal.Decimal, positions []*Position, expiry time.Duration) (*Order, error) {
	if eventID == 0 {
		return nil, fmt.Errorf("event ID is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if provider == "" {
		return nil, ErrProviderRequired
	}
	if len(positions) == 0 {
		return nil, ErrEmptyOrder
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("payment fee must not be negative")
	}

	fee = money.Round(fee, currency)
	total := fee
	for _, p := range positions {
		total = total.Add(p.Price())
	}

	code, err := id.NewOrderCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order code: %w", err)
	}
	secret, err := id.NewOrderSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order secret: %w", err)
	}

	now := biztime.NowUTC()
	return &Order{
		code:            code,
		secret:          secret,
		eventID:         eventID,
		email:           email,
		locale:          locale,
		status:          vo.OrderStatusPending,
		datetime:        now,
		expires:         now.Add(expiry),
		total:           total,
		paymentFee:      fee,
		paymentProvider: provider,
		positions:       positions,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructOrder rebuilds an order from persistence.
func ReconstructOrder(
	id uint,
	code, secret string,
	eventID uint,
	email, locale string,
	status vo.OrderStatus,
	datetime, expires time.Time,
	total, paymentFee decimal.Decimal,
	paymentProvider, paymentInfo string,
	paymentDate *time.Time,
	positions []*Position,
	version int,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:              id,
		code:            code,
		secret:          secret,
		eventID:         eventID,
		email:           email,
		locale:          locale,
		status:          status,
		datetime:        datetime,
		expires:         expires,
		total:           total,
		paymentFee:      paymentFee,
		paymentProvider: paymentProvider,
		paymentInfo:     paymentInfo,
		paymentDate:     paymentDate,
		positions:       positions,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// MarkPaid moves a pending order to paid and records which provider
// processed it. Calling it again for an order the same provider already
// marked paid is a no-op and reports changed=false.
func (o *Order) MarkPaid(provider, info string) (bool, error) {
	if provider == "" {
		return false, ErrProviderRequired
	}
	if o.status.IsPaid() {
		if o.paymentProvider != provider {
			return false, fmt.Errorf("%w: %s", ErrPaidByOther, o.paymentProvider)
		}
		return false, nil
	}
	if !o.status.IsPending() {
		return false, fmt.Errorf("%w: status %s", ErrNotPending, o.status.Name())
	}

	now := biztime.NowUTC()
	o.status = vo.OrderStatusPaid
	o.paymentProvider = provider
	if info != "" {
		o.paymentInfo = info
	}
	o.paymentDate = &now
	o.updatedAt = now
	o.version++

	return true, nil
}

// SetPaymentInfo stores provider data on an order that stays pending, such as
// an external session reference.
func (o *Order) SetPaymentInfo(info string) error {
	if o.status.IsFinal() {
		return fmt.Errorf("%w: status %s", ErrNotPending, o.status.Name())
	}
	if o.paymentInfo == info {
		return nil
	}
	o.paymentInfo = info
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

func (o *Order) Expire() error {
	if !o.status.IsPending() {
		return fmt.Errorf("%w: status %s", ErrNotPending, o.status.Name())
	}
	o.status = vo.OrderStatusExpired
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

func (o *Order) Cancel() error {
	if !o.status.IsPending() {
		return fmt.Errorf("%w: status %s", ErrNotPending, o.status.Name())
	}
	o.status = vo.OrderStatusCanceled
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

// IsExpired reports whether a pending order ran past its deadline.
func (o *Order) IsExpired(now time.Time) bool {
	return o.status.IsPending() && now.After(o.expires)
}

// Clone returns a deep copy. Mutations go to the clone, which is persisted
// against the version of the original.
func (o *Order) Clone() *Order {
	c := *o
	if o.paymentDate != nil {
		d := *o.paymentDate
		c.paymentDate = &d
	}
	c.positions = make([]*Position, len(o.positions))
	for i, p := range o.positions {
		c.positions[i] = p.clone()
	}
	return &c
}

// Subtotal is the total without the payment fee.
func (o *Order) Subtotal() decimal.Decimal {
	return o.total.Sub(o.paymentFee)
}

func (o *Order) ID() uint {
	return o.id
}

func (o *Order) SetID(id uint) {
	o.id = id
}

func (o *Order) Code() string {
	return o.code
}

func (o *Order) Secret() string {
	return o.secret
}

func (o *Order) EventID() uint {
	return o.eventID
}

func (o *Order) Email() string {
	return o.email
}

func (o *Order) Locale() string {
	return o.locale
}

func (o *Order) Status() vo.OrderStatus {
	return o.status
}

func (o *Order) Datetime() time.Time {
	return o.datetime
}

func (o *Order) Expires() time.Time {
	return o.expires
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

func (o *Order) PaymentFee() decimal.Decimal {
	return o.paymentFee
}

func (o *Order) PaymentProvider() string {
	return o.paymentProvider
}

func (o *Order) PaymentInfo() string {
	return o.paymentInfo
}

func (o *Order) PaymentDate() *time.Time {
	return o.paymentDate
}

func (o *Order) Positions() []*Position {
	return o.positions
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}
