package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("menu item not found")

// Catalog resolves menu items for the order engine.
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
}

type postgresCatalog struct {
	db *pgxpool.Pool
}

func NewCatalog(db *pgxpool.Pool) Catalog {
	return &postgresCatalog{db: db}
}

func (r *postgresCatalog) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := `
		SELECT id, category_id, name, description, price, available, prep_minutes, ingredients, allergens, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var item Item
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.CategoryID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Available,
		&item.PrepMinutes,
		&item.Ingredients,
		&item.Allergens,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select menu item by id %s: %w", id, err)
	}

	return &item, nil
}
