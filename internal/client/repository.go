package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("client not found")

// Directory resolves clients for the order engine.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
}

type postgresDirectory struct {
	db *pgxpool.Pool
}

func NewDirectory(db *pgxpool.Pool) Directory {
	return &postgresDirectory{db: db}
}

func (r *postgresDirectory) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, address, company, notes, active, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var c Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Company,
		&c.Notes,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select client by id %s: %w", id, err)
	}

	return &c, nil
}
