package inventory

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// SupplyItem is a stocked ingredient or consumable. Quantities are decimal
// because supplies are measured in fractional units (kg, l).
type SupplyItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description,omitempty" db:"description"`
	Unit            string          `json:"unit" db:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity" db:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity" db:"minimum_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Supplier        string          `json:"supplier,omitempty" db:"supplier"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty" db:"expiry_date"`
	Active          bool            `json:"active" db:"active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// BelowThreshold reports whether the item is at or under its minimum.
func (s *SupplyItem) BelowThreshold() bool {
	return s.CurrentQuantity.LessThanOrEqual(s.MinimumQuantity)
}

// Alert is an inventory event published on the inventory hub.
type Alert interface {
	isAlert()
}

// LowStockAlert announces a single item at or under its threshold.
type LowStockAlert struct {
	Item SupplyItem
}

// ExpiringSoonAlert carries the full batch of items whose expiry date falls
// within the configured look-ahead window.
type ExpiringSoonAlert struct {
	Items []SupplyItem
}

func (LowStockAlert) isAlert()     {}
func (ExpiringSoonAlert) isAlert() {}
