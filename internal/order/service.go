package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"catering-service/internal/client"
	"catering-service/internal/menu"
	"catering-service/internal/notify"
	"catering-service/internal/pricing"
)

var (
	ErrClientNotFound        = errors.New("client not found")
	ErrClientInactive        = errors.New("client is inactive")
	ErrMenuItemNotFound      = errors.New("menu item not found")
	ErrMenuItemUnavailable   = errors.New("menu item is not available")
	ErrNoLines               = errors.New("order must contain at least one line")
	ErrNonPositivePartySize  = errors.New("party size must be greater than zero")
	ErrInvalidStatus         = errors.New("unknown order status")
	ErrOrderAlreadyDelivered = errors.New("delivered orders cannot be cancelled")
)

type CreateLineInput struct {
	MenuItemID     uuid.UUID
	Quantity       int
	Customizations string
}

type CreateInput struct {
	ClientID        uuid.UUID
	DeliveryDate    time.Time
	DeliveryTime    string
	DeliveryAddress string
	Notes           string
	PartySize       int
	Discount        decimal.Decimal
	Lines           []CreateLineInput
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter Filter, page Page) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Order, error)
}

type service struct {
	repo      Repository
	clients   client.Directory
	catalog   menu.Catalog
	calc      *pricing.Calculator
	numbers   *NumberGenerator
	statusHub *notify.Hub[StatusChange]
}

func NewService(
	repo Repository,
	clients client.Directory,
	catalog menu.Catalog,
	calc *pricing.Calculator,
	numbers *NumberGenerator,
	statusHub *notify.Hub[StatusChange],
) Service {
	return &service{
		repo:      repo,
		clients:   clients,
		catalog:   catalog,
		calc:      calc,
		numbers:   numbers,
		statusHub: statusHub,
	}
}

// Create validates and prices the requested lines, then persists the order
// header and all lines atomically. Menu prices are snapshotted here; later
// catalog changes never touch existing orders.
func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrNoLines
	}
	if input.PartySize <= 0 {
		return nil, ErrNonPositivePartySize
	}

	c, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			log.Warn().Stringer("client_id", input.ClientID).Msg("service: client not found, cannot create order")
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("service: failed to resolve client: %w", err)
	}
	if !c.Active {
		return nil, fmt.Errorf("service: client %s: %w", input.ClientID, ErrClientInactive)
	}

	lines := make([]OrderLine, 0, len(input.Lines))
	priceInputs := make([]pricing.LineInput, 0, len(input.Lines))

	for _, lineInput := range input.Lines {
		item, err := s.catalog.GetByID(ctx, lineInput.MenuItemID)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				return nil, fmt.Errorf("service: menu item %s: %w", lineInput.MenuItemID, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("service: failed to resolve menu item: %w", err)
		}
		if !item.Available {
			return nil, fmt.Errorf("service: menu item %q: %w", item.Name, ErrMenuItemUnavailable)
		}

		lines = append(lines, OrderLine{
			MenuItemID:     item.ID,
			Quantity:       lineInput.Quantity,
			UnitPrice:      item.Price,
			Subtotal:       pricing.LineSubtotal(item.Price, lineInput.Quantity),
			Customizations: lineInput.Customizations,
		})
		priceInputs = append(priceInputs, pricing.LineInput{
			UnitPrice: item.Price,
			Quantity:  lineInput.Quantity,
		})
	}

	quote, err := s.calc.Quote(priceInputs, input.Discount)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	o := &Order{
		Number:          s.numbers.Generate(),
		ClientID:        input.ClientID,
		Status:          StatusPending,
		DeliveryDate:    input.DeliveryDate,
		DeliveryTime:    input.DeliveryTime,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		PartySize:       input.PartySize,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Discount:        quote.Discount,
		Total:           quote.Total,
		Lines:           lines,
	}

	err = s.repo.Create(ctx, o)
	if errors.Is(err, ErrNumberTaken) {
		// a clashing reference is possible within the same second; regenerate
		// and retry exactly once, then surface the conflict
		log.Warn().Str("number", o.Number).Msg("service: order number collision, retrying with a fresh number")
		o.ID = uuid.Nil
		o.Number = s.numbers.Generate()
		err = s.repo.Create(ctx, o)
	}
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().
		Stringer("order_id", o.ID).
		Str("number", o.Number).
		Stringer("client_id", o.ClientID).
		Str("total", o.Total.String()).
		Msg("service: order created")

	return o, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return o, nil
}

func (s *service) List(ctx context.Context, filter Filter, page Page) ([]Order, int, error) {
	orders, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus sets the order to any valid status regardless of its current
// one. The state machine is deliberately permissive; only Cancel guards the
// DELIVERED edge. The status-changed event is published only after the update
// has been committed.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Stringer("order_id", id).Msg("service: order not found, cannot update status")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if newStatus == "" {
		return o, nil
	}
	if !newStatus.Valid() {
		return nil, fmt.Errorf("service: status %q: %w", newStatus, ErrInvalidStatus)
	}

	oldStatus := o.Status

	updatedAt, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	o.Status = newStatus
	o.UpdatedAt = updatedAt
	s.statusHub.Publish(StatusChange{Order: o, Old: oldStatus, New: newStatus})

	log.Info().
		Stringer("order_id", id).
		Stringer("old_status", oldStatus).
		Stringer("new_status", newStatus).
		Msg("service: order status updated")

	return o, nil
}

// Cancel moves the order to CANCELLED from any status except DELIVERED.
// Cancellation is a status, not a removal; the order stays readable.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for cancellation: %w", err)
	}

	if o.Status == StatusDelivered {
		return nil, ErrOrderAlreadyDelivered
	}

	oldStatus := o.Status

	updatedAt, err := s.repo.UpdateStatus(ctx, id, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to cancel order: %w", err)
	}

	o.Status = StatusCancelled
	o.UpdatedAt = updatedAt
	s.statusHub.Publish(StatusChange{Order: o, Old: oldStatus, New: StatusCancelled})

	log.Info().
		Stringer("order_id", id).
		Stringer("old_status", oldStatus).
		Msg("service: order cancelled")

	return o, nil
}
