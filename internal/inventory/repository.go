package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("supply item not found")
	ErrNameTaken = errors.New("a supply item with this name already exists")
)

type Repository interface {
	Create(ctx context.Context, item *SupplyItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*SupplyItem, error)
	Update(ctx context.Context, item *SupplyItem) error
	ListActive(ctx context.Context) ([]SupplyItem, error)
	ListBelowThreshold(ctx context.Context) ([]SupplyItem, error)
	ListExpiringBefore(ctx context.Context, deadline time.Time) ([]SupplyItem, error)
}

const supplyColumns = `id, name, description, unit, current_quantity, minimum_quantity, unit_cost, supplier, expiry_date, active, created_at, updated_at`

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, item *SupplyItem) error {
	if item.ID == uuid.Nil {
		genID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate supply item id: %w", err)
		}
		item.ID = genID
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO supply_items (` + supplyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Unit,
		item.CurrentQuantity,
		item.MinimumQuantity,
		item.UnitCost,
		item.Supplier,
		item.ExpiryDate,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("repository: supply item %q: %w", item.Name, ErrNameTaken)
		}
		return fmt.Errorf("repository: failed to insert supply item: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*SupplyItem, error) {
	query := `SELECT ` + supplyColumns + ` FROM supply_items WHERE id = $1`

	item, err := r.scanOne(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select supply item by id %s: %w", id, err)
	}

	return item, nil
}

func (r *postgresRepository) Update(ctx context.Context, item *SupplyItem) error {
	item.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE supply_items
		SET name = $1, description = $2, unit = $3, current_quantity = $4, minimum_quantity = $5,
			unit_cost = $6, supplier = $7, expiry_date = $8, active = $9, updated_at = $10
		WHERE id = $11
	`
	cmdTag, err := r.db.Exec(ctx, query,
		item.Name,
		item.Description,
		item.Unit,
		item.CurrentQuantity,
		item.MinimumQuantity,
		item.UnitCost,
		item.Supplier,
		item.ExpiryDate,
		item.Active,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("repository: supply item %q: %w", item.Name, ErrNameTaken)
		}
		return fmt.Errorf("repository: failed to update supply item %s: %w", item.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]SupplyItem, error) {
	query := `SELECT ` + supplyColumns + ` FROM supply_items WHERE active ORDER BY name`
	return r.list(ctx, query)
}

func (r *postgresRepository) ListBelowThreshold(ctx context.Context) ([]SupplyItem, error) {
	query := `
		SELECT ` + supplyColumns + `
		FROM supply_items
		WHERE active AND current_quantity <= minimum_quantity
		ORDER BY current_quantity
	`
	return r.list(ctx, query)
}

func (r *postgresRepository) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]SupplyItem, error) {
	query := `
		SELECT ` + supplyColumns + `
		FROM supply_items
		WHERE active AND expiry_date IS NOT NULL AND expiry_date < $1
		ORDER BY expiry_date
	`
	return r.list(ctx, query, deadline)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...any) ([]SupplyItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query supply items: %w", err)
	}
	defer rows.Close()

	items := make([]SupplyItem, 0)
	for rows.Next() {
		var item SupplyItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Unit,
			&item.CurrentQuantity,
			&item.MinimumQuantity,
			&item.UnitCost,
			&item.Supplier,
			&item.ExpiryDate,
			&item.Active,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan supply item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating supply items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*SupplyItem, error) {
	var item SupplyItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Unit,
		&item.CurrentQuantity,
		&item.MinimumQuantity,
		&item.UnitCost,
		&item.Supplier,
		&item.ExpiryDate,
		&item.Active,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
