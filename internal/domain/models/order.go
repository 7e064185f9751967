package models

import "time"

// OrderStatus is an open-ended enumeration owned by the backend; the client
// never validates transitions, it only requests them. The constants below
// cover the values the backend is known to use.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
	StatusShipped OrderStatus = "shipped"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Order represents a persisted order. Orders are created server-side only;
// the client reads them and requests status transitions. UserID is 0 when
// the order was assembled from a checkout response, because that endpoint
// does not report the owner.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CheckoutResponse is the ephemeral result of a checkout: a human-readable
// message plus the order reassembled from the endpoint's ad hoc reply shape.
// It is never persisted.
type CheckoutResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}
