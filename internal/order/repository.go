package order

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
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrNumberTaken = errors.New("order number already taken")
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status   Status
	ClientID uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

type Page struct {
	Number int
	Size   int
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter Filter, page Page) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (time.Time, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Create persists the order header and all its lines in one transaction.
// Nothing is visible to other readers until commit; any failure rolls the
// whole order back. A unique violation on the number column is reported as
// ErrNumberTaken so the service can regenerate and retry.
func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	if o.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", genErr)
		}
		o.ID = genID
	}

	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("repository: failed to rollback after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("repository: failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders (id, number, client_id, status, delivery_date, delivery_time, delivery_address,
			notes, party_size, subtotal, tax, discount, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.Exec(ctx, queryOrder,
		o.ID,
		o.Number,
		o.ClientID,
		string(o.Status),
		o.DeliveryDate,
		o.DeliveryTime,
		o.DeliveryAddress,
		o.Notes,
		o.PartySize,
		o.Subtotal,
		o.Tax,
		o.Discount,
		o.Total,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("repository: order number %q: %w", o.Number, ErrNumberTaken)
		}
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryLine := `
		INSERT INTO order_lines (id, order_id, menu_item_id, quantity, unit_price, subtotal, customizations, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range o.Lines {
		line := &o.Lines[i]

		lineID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order line id: %w", genErr)
		}
		line.ID = lineID
		line.OrderID = o.ID
		line.Position = i
		line.CreatedAt = now

		_, err = tx.Exec(ctx, queryLine,
			line.ID,
			line.OrderID,
			line.MenuItemID,
			line.Quantity,
			line.UnitPrice,
			line.Subtotal,
			line.Customizations,
			line.Position,
			line.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order line for order %s: %w", o.ID, err)
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, number, client_id, status, delivery_date, delivery_time, delivery_address,
			notes, party_size, subtotal, tax, discount, total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, id).Scan(
		&o.ID,
		&o.Number,
		&o.ClientID,
		&o.Status,
		&o.DeliveryDate,
		&o.DeliveryTime,
		&o.DeliveryAddress,
		&o.Notes,
		&o.PartySize,
		&o.Subtotal,
		&o.Tax,
		&o.Discount,
		&o.Total,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	lines, err := r.linesForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return &o, nil
}

func (r *postgresRepository) linesForOrder(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	query := `
		SELECT id, order_id, menu_item_id, quantity, unit_price, subtotal, customizations, position, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order lines for order %s: %w", orderID, err)
	}
	defer rows.Close()

	lines := make([]OrderLine, 0)
	for rows.Next() {
		var line OrderLine
		err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.MenuItemID,
			&line.Quantity,
			&line.UnitPrice,
			&line.Subtotal,
			&line.Customizations,
			&line.Position,
			&line.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order line for order %s: %w", orderID, err)
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order lines for order %s: %w", orderID, err)
	}

	return lines, nil
}

func (r *postgresRepository) List(ctx context.Context, filter Filter, page Page) ([]Order, int, error) {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size < 1 {
		page.Size = 10
	}

	where := " WHERE 1=1"
	args := []any{}
	argn := 0

	if filter.Status != "" {
		argn++
		where += fmt.Sprintf(" AND status = $%d", argn)
		args = append(args, string(filter.Status))
	}
	if filter.ClientID != uuid.Nil {
		argn++
		where += fmt.Sprintf(" AND client_id = $%d", argn)
		args = append(args, filter.ClientID)
	}
	if filter.DateFrom != nil {
		argn++
		where += fmt.Sprintf(" AND delivery_date >= $%d", argn)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		argn++
		where += fmt.Sprintf(" AND delivery_date <= $%d", argn)
		args = append(args, *filter.DateTo)
	}

	var total int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count orders: %w", err)
	}

	query := `
		SELECT id, number, client_id, status, delivery_date, delivery_time, delivery_address,
			notes, party_size, subtotal, tax, discount, total, created_at, updated_at
		FROM orders` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argn+1, argn+2)
	args = append(args, page.Size, (page.Number-1)*page.Size)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.Number,
			&o.ClientID,
			&o.Status,
			&o.DeliveryDate,
			&o.DeliveryTime,
			&o.DeliveryAddress,
			&o.Notes,
			&o.PartySize,
			&o.Subtotal,
			&o.Tax,
			&o.Discount,
			&o.Total,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Lines = make([]OrderLine, 0)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	for i := range orders {
		lines, err := r.linesForOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Lines = lines
	}

	return orders, total, nil
}

// UpdateStatus sets the status and returns the updated_at the row now
// carries, so callers can reflect the persisted timestamp without re-reading.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (time.Time, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.db.QueryRow(ctx, query, string(newStatus), time.Now().UTC(), id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("repository: failed to update order status for %s: %w", id, err)
	}

	return updatedAt, nil
}
