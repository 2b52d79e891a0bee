package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
// The engine does not enforce this for UpdateStatus; only Cancel
// refuses to leave DELIVERED.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderLine is one priced quantity of a single menu item. UnitPrice is a
// snapshot of the catalog price at creation time and is never recomputed.
type OrderLine struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrderID        uuid.UUID       `json:"order_id" db:"order_id"`
	MenuItemID     uuid.UUID       `json:"menu_item_id" db:"menu_item_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	Customizations string          `json:"customizations,omitempty" db:"customizations"`
	Position       int             `json:"position" db:"position"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Number          string          `json:"number" db:"number"`
	ClientID        uuid.UUID       `json:"client_id" db:"client_id"`
	Status          Status          `json:"status" db:"status"`
	DeliveryDate    time.Time       `json:"delivery_date" db:"delivery_date"`
	DeliveryTime    string          `json:"delivery_time" db:"delivery_time"`
	DeliveryAddress string          `json:"delivery_address" db:"delivery_address"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	PartySize       int             `json:"party_size" db:"party_size"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax             decimal.Decimal `json:"tax" db:"tax"`
	Discount        decimal.Decimal `json:"discount" db:"discount"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Lines           []OrderLine     `json:"lines" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// StatusChange is the event published after an order's status has been
// durably persisted. Order carries the new status.
type StatusChange struct {
	Order *Order
	Old   Status
	New   Status
}
