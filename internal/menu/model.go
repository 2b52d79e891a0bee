package menu

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Price here is the catalog price; orders snapshot
// it into their lines at creation time and never read it back.
type Item struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CategoryID  uuid.UUID       `json:"category_id" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Available   bool            `json:"available" db:"available"`
	PrepMinutes int             `json:"prep_minutes" db:"prep_minutes"`
	Ingredients []string        `json:"ingredients,omitempty" db:"ingredients"`
	Allergens   []string        `json:"allergens,omitempty" db:"allergens"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
