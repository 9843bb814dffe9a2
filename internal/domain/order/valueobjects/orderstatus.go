package valueobjects

// OrderStatus is stored as a single character.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "n"
	OrderStatusPaid     OrderStatus = "p"
	OrderStatusExpired  OrderStatus = "e"
	OrderStatusCanceled OrderStatus = "c"
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPending:  "pending",
	OrderStatusPaid:     "paid",
	OrderStatusExpired:  "expired",
	OrderStatusCanceled: "canceled",
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) IsPending() bool {
	return s == OrderStatusPending
}

func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusPaid
}

func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusPaid || s == OrderStatusExpired || s == OrderStatusCanceled
}

// Name is the human readable status.
func (s OrderStatus) Name() string {
	return orderStatusNames[s]
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts both the stored code and the readable name.
func ParseOrderStatus(v string) (OrderStatus, bool) {
	if s := OrderStatus(v); s.IsValid() {
		return s, true
	}
	for s, name := range orderStatusNames {
		if name == v {
			return s, true
		}
	}
	return "", false
}
