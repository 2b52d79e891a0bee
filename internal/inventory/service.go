package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"catering-service/internal/notify"
)

var ErrNegativeQuantity = errors.New("stock quantity cannot be negative")

// UpdateInput carries the editable fields of a supply item. Pointer fields
// left nil keep their current value.
type UpdateInput struct {
	Name            *string
	Description     *string
	Unit            *string
	CurrentQuantity *decimal.Decimal
	MinimumQuantity *decimal.Decimal
	UnitCost        *decimal.Decimal
	Supplier        *string
	ExpiryDate      *time.Time
}

type Service interface {
	Create(ctx context.Context, item *SupplyItem) (*SupplyItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SupplyItem, error)
	List(ctx context.Context) ([]SupplyItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplyItem, error)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*SupplyItem, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Sweep(ctx context.Context) error
}

// service owns the threshold monitor: every quantity mutation goes through
// here, and post-mutation state is checked against the item's minimum.
type service struct {
	repo      Repository
	alertHub  *notify.Hub[Alert]
	lookahead time.Duration
	now       func() time.Time
}

func NewService(repo Repository, alertHub *notify.Hub[Alert], lookaheadDays int) Service {
	return &service{
		repo:      repo,
		alertHub:  alertHub,
		lookahead: time.Duration(lookaheadDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, item *SupplyItem) (*SupplyItem, error) {
	if item.CurrentQuantity.IsNegative() || item.MinimumQuantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}

	item.Active = true
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, ErrNameTaken) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("service: failed to create supply item: %w", err)
	}

	log.Info().Stringer("supply_item_id", item.ID).Str("name", item.Name).Msg("service: supply item created")
	s.checkThreshold(item)

	return item, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SupplyItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch supply item: %w", err)
	}
	if !item.Active {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *service) List(ctx context.Context) ([]SupplyItem, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list supply items: %w", err)
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplyItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.CurrentQuantity != nil {
		if input.CurrentQuantity.IsNegative() {
			return nil, ErrNegativeQuantity
		}
		item.CurrentQuantity = *input.CurrentQuantity
	}
	if input.MinimumQuantity != nil {
		if input.MinimumQuantity.IsNegative() {
			return nil, ErrNegativeQuantity
		}
		item.MinimumQuantity = *input.MinimumQuantity
	}
	if input.UnitCost != nil {
		item.UnitCost = *input.UnitCost
	}
	if input.Supplier != nil {
		item.Supplier = *input.Supplier
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = input.ExpiryDate
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, ErrNameTaken) {
			return nil, ErrNameTaken
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to update supply item: %w", err)
	}

	s.checkThreshold(item)

	return item, nil
}

// UpdateStock replaces the current quantity. The monitor only observes the
// post-mutation state; it does not own the mutation.
func (s *service) UpdateStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*SupplyItem, error) {
	if quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.CurrentQuantity = quantity
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to update stock: %w", err)
	}

	log.Info().
		Stringer("supply_item_id", item.ID).
		Str("quantity", item.CurrentQuantity.String()).
		Msg("service: stock updated")
	s.checkThreshold(item)

	return item, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	item.Active = false
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("service: failed to deactivate supply item: %w", err)
	}

	log.Info().Stringer("supply_item_id", id).Msg("service: supply item deactivated")
	return nil
}

// Sweep re-announces every current alert condition: one low-stock event per
// item at or under threshold, and one batched expiring-soon event for items
// expiring within the look-ahead window. There is no suppression between
// runs; two sweeps over unchanged state publish the same events twice.
func (s *service) Sweep(ctx context.Context) error {
	low, err := s.repo.ListBelowThreshold(ctx)
	if err != nil {
		return fmt.Errorf("service: sweep failed to list low-stock items: %w", err)
	}
	for _, item := range low {
		s.alertHub.Publish(LowStockAlert{Item: item})
	}

	expiring, err := s.repo.ListExpiringBefore(ctx, s.now().Add(s.lookahead))
	if err != nil {
		return fmt.Errorf("service: sweep failed to list expiring items: %w", err)
	}
	if len(expiring) > 0 {
		s.alertHub.Publish(ExpiringSoonAlert{Items: expiring})
	}

	log.Info().
		Int("low_stock", len(low)).
		Int("expiring_soon", len(expiring)).
		Msg("service: inventory sweep completed")

	return nil
}

func (s *service) checkThreshold(item *SupplyItem) {
	if item.BelowThreshold() {
		s.alertHub.Publish(LowStockAlert{Item: *item})
	}
}
