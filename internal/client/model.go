package client

import (
	"time"

	"github.com/gofrs/uuid"
)

// Client is a catering customer. Inactive clients are soft-deleted:
// they still resolve, but new orders for them are rejected.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Company   string    `json:"company,omitempty" db:"company"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
