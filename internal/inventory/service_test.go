package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering-service/internal/inventory"
	"catering-service/internal/notify"
)

type mockRepository struct {
	createFunc             func(ctx context.Context, item *inventory.SupplyItem) error
	getByIDFunc            func(ctx context.Context, id uuid.UUID) (*inventory.SupplyItem, error)
	updateFunc             func(ctx context.Context, item *inventory.SupplyItem) error
	listActiveFunc         func(ctx context.Context) ([]inventory.SupplyItem, error)
	listBelowThresholdFunc func(ctx context.Context) ([]inventory.SupplyItem, error)
	listExpiringBeforeFunc func(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error)
}

func (m *mockRepository) Create(ctx context.Context, item *inventory.SupplyItem) error {
	return m.createFunc(ctx, item)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*inventory.SupplyItem, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) Update(ctx context.Context, item *inventory.SupplyItem) error {
	return m.updateFunc(ctx, item)
}

func (m *mockRepository) ListActive(ctx context.Context) ([]inventory.SupplyItem, error) {
	return m.listActiveFunc(ctx)
}

func (m *mockRepository) ListBelowThreshold(ctx context.Context) ([]inventory.SupplyItem, error) {
	return m.listBelowThresholdFunc(ctx)
}

func (m *mockRepository) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error) {
	return m.listExpiringBeforeFunc(ctx, deadline)
}

type capturingListener struct {
	alerts []inventory.Alert
}

func (l *capturingListener) Notify(alert inventory.Alert) {
	l.alerts = append(l.alerts, alert)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id
}

func supplyItem(id uuid.UUID, name, current, minimum string) inventory.SupplyItem {
	return inventory.SupplyItem{
		ID:              id,
		Name:            name,
		Unit:            "kg",
		CurrentQuantity: dec(current),
		MinimumQuantity: dec(minimum),
		UnitCost:        dec("2.50"),
		Active:          true,
	}
}

func newHubWithListener() (*notify.Hub[inventory.Alert], *capturingListener) {
	hub := notify.NewHub[inventory.Alert]()
	listener := &capturingListener{}
	hub.Subscribe(listener)
	return hub, listener
}

func TestService_UpdateStock_ThresholdBoundary(t *testing.T) {
	itemID := mustUUID(t)

	tests := []struct {
		name      string
		quantity  string
		minimum   string
		wantAlert bool
	}{
		{name: "above_threshold_no_alert", quantity: "10", minimum: "5", wantAlert: false},
		{name: "at_threshold_fires", quantity: "5", minimum: "5", wantAlert: true},
		{name: "below_threshold_fires", quantity: "2", minimum: "5", wantAlert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := supplyItem(itemID, "flour", "100", tt.minimum)
			repo := &mockRepository{
				getByIDFunc: func(ctx context.Context, id uuid.UUID) (*inventory.SupplyItem, error) {
					item := stored
					return &item, nil
				},
				updateFunc: func(ctx context.Context, item *inventory.SupplyItem) error {
					return nil
				},
			}
			hub, listener := newHubWithListener()

			svc := inventory.NewService(repo, hub, 30)
			updated, err := svc.UpdateStock(context.Background(), itemID, dec(tt.quantity))
			require.NoError(t, err)
			assert.True(t, updated.CurrentQuantity.Equal(dec(tt.quantity)))

			if tt.wantAlert {
				require.Len(t, listener.alerts, 1)
				low, ok := listener.alerts[0].(inventory.LowStockAlert)
				require.True(t, ok)
				assert.Equal(t, itemID, low.Item.ID)
			} else {
				assert.Empty(t, listener.alerts)
			}
		})
	}
}

func TestService_UpdateStock_NegativeRejected(t *testing.T) {
	repo := &mockRepository{}
	hub, listener := newHubWithListener()

	svc := inventory.NewService(repo, hub, 30)
	_, err := svc.UpdateStock(context.Background(), mustUUID(t), dec("-1"))
	assert.ErrorIs(t, err, inventory.ErrNegativeQuantity)
	assert.Empty(t, listener.alerts)
}

func TestService_Create(t *testing.T) {
	t.Run("low_initial_stock_fires_alert", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, item *inventory.SupplyItem) error { return nil },
		}
		hub, listener := newHubWithListener()

		item := supplyItem(mustUUID(t), "sugar", "3", "5")
		svc := inventory.NewService(repo, hub, 30)
		created, err := svc.Create(context.Background(), &item)
		require.NoError(t, err)
		assert.True(t, created.Active)
		require.Len(t, listener.alerts, 1)
	})

	t.Run("duplicate_name_conflict", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, item *inventory.SupplyItem) error {
				return inventory.ErrNameTaken
			},
		}
		hub, _ := newHubWithListener()

		item := supplyItem(mustUUID(t), "sugar", "10", "5")
		svc := inventory.NewService(repo, hub, 30)
		_, err := svc.Create(context.Background(), &item)
		assert.ErrorIs(t, err, inventory.ErrNameTaken)
	})
}

func TestService_Sweep(t *testing.T) {
	atThreshold := supplyItem(uuid.Must(uuid.NewV4()), "flour", "5", "5")
	expiresSoon := supplyItem(uuid.Must(uuid.NewV4()), "cream", "20", "5")
	expiry := time.Now().Add(10 * 24 * time.Hour)
	expiresSoon.ExpiryDate = &expiry

	t.Run("one_low_stock_event_per_item_and_one_batched_expiry", func(t *testing.T) {
		repo := &mockRepository{
			listBelowThresholdFunc: func(ctx context.Context) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{atThreshold}, nil
			},
			listExpiringBeforeFunc: func(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{expiresSoon}, nil
			},
		}
		hub, listener := newHubWithListener()

		svc := inventory.NewService(repo, hub, 30)
		require.NoError(t, svc.Sweep(context.Background()))

		require.Len(t, listener.alerts, 2)

		low, ok := listener.alerts[0].(inventory.LowStockAlert)
		require.True(t, ok)
		assert.Equal(t, atThreshold.ID, low.Item.ID)

		batch, ok := listener.alerts[1].(inventory.ExpiringSoonAlert)
		require.True(t, ok)
		require.Len(t, batch.Items, 1)
		assert.Equal(t, expiresSoon.ID, batch.Items[0].ID)
	})

	t.Run("no_expiring_items_no_batch_event", func(t *testing.T) {
		repo := &mockRepository{
			listBelowThresholdFunc: func(ctx context.Context) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{}, nil
			},
			listExpiringBeforeFunc: func(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{}, nil
			},
		}
		hub, listener := newHubWithListener()

		svc := inventory.NewService(repo, hub, 30)
		require.NoError(t, svc.Sweep(context.Background()))
		assert.Empty(t, listener.alerts)
	})

	t.Run("idempotent_reruns_republish", func(t *testing.T) {
		repo := &mockRepository{
			listBelowThresholdFunc: func(ctx context.Context) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{atThreshold}, nil
			},
			listExpiringBeforeFunc: func(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error) {
				return []inventory.SupplyItem{expiresSoon}, nil
			},
		}
		hub, listener := newHubWithListener()

		svc := inventory.NewService(repo, hub, 30)
		require.NoError(t, svc.Sweep(context.Background()))
		require.NoError(t, svc.Sweep(context.Background()))

		assert.Len(t, listener.alerts, 4)
	})

	t.Run("lookahead_window_passed_to_store", func(t *testing.T) {
		var gotDeadline time.Time
		repo := &mockRepository{
			listBelowThresholdFunc: func(ctx context.Context) ([]inventory.SupplyItem, error) {
				return nil, nil
			},
			listExpiringBeforeFunc: func(ctx context.Context, deadline time.Time) ([]inventory.SupplyItem, error) {
				gotDeadline = deadline
				return nil, nil
			},
		}
		hub, _ := newHubWithListener()

		svc := inventory.NewService(repo, hub, 30)
		require.NoError(t, svc.Sweep(context.Background()))

		expected := time.Now().Add(30 * 24 * time.Hour)
		assert.WithinDuration(t, expected, gotDeadline, time.Minute)
	})
}

func TestService_Deactivate(t *testing.T) {
	itemID := mustUUID(t)
	stored := supplyItem(itemID, "flour", "10", "5")

	var updated *inventory.SupplyItem
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*inventory.SupplyItem, error) {
			item := stored
			return &item, nil
		},
		updateFunc: func(ctx context.Context, item *inventory.SupplyItem) error {
			updated = item
			return nil
		},
	}
	hub, _ := newHubWithListener()

	svc := inventory.NewService(repo, hub, 30)
	require.NoError(t, svc.Deactivate(context.Background(), itemID))
	require.NotNil(t, updated)
	assert.False(t, updated.Active)
}

func TestService_GetByID_InactiveHidden(t *testing.T) {
	itemID := mustUUID(t)
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*inventory.SupplyItem, error) {
			item := supplyItem(itemID, "flour", "10", "5")
			item.Active = false
			return &item, nil
		},
	}
	hub, _ := newHubWithListener()

	svc := inventory.NewService(repo, hub, 30)
	_, err := svc.GetByID(context.Background(), itemID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}
