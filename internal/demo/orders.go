// Package demo holds the sample services the actionlog-demo command wires through the
// action logging pipeline: an order service that reserves stock from an inventory.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gaborage/go-bricks-actionlog/app"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
)

// CancelAction is the explicit action name of order cancellations.
const CancelAction = "ORDER_CANCEL"

var (
	ErrOutOfStock    = errors.New("out of stock")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidAmount = errors.New("quantity must be positive")
)

// Inventory reserves stock.
type Inventory interface {
	Reserve(ctx context.Context, sku string, qty int) error
}

// Orders places and cancels orders.
type Orders interface {
	Place(ctx context.Context, sku string, qty int, card string) (string, error)
	Cancel(ctx context.Context, id string) error
}

// Stock is an in-memory Inventory.
type Stock struct {
	mu     sync.Mutex
	levels map[string]int
}

// NewStock creates an inventory holding the given quantities.
func NewStock(levels map[string]int) *Stock {
	copied := make(map[string]int, len(levels))
	for sku, qty := range levels {
		copied[sku] = qty
	}
	return &Stock{levels: copied}
}

func (s *Stock) Reserve(_ context.Context, sku string, qty int) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.levels[sku] < qty {
		return fmt.Errorf("%w: %s", ErrOutOfStock, sku)
	}
	s.levels[sku] -= qty
	return nil
}

// Level returns the remaining quantity of sku.
func (s *Stock) Level(sku string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[sku]
}

// OrderBook is an in-memory Orders implementation.
type OrderBook struct {
	inventory Inventory

	mu     sync.Mutex
	orders map[string]string
}

// NewOrderBook creates an order book reserving stock from inventory.
func NewOrderBook(inventory Inventory) *OrderBook {
	return &OrderBook{inventory: inventory, orders: make(map[string]string)}
}

func (b *OrderBook) Place(ctx context.Context, sku string, qty int, _ string) (string, error) {
	if err := b.inventory.Reserve(ctx, sku, qty); err != nil {
		return "", err
	}
	id := uuid.NewString()
	b.mu.Lock()
	b.orders[id] = sku
	b.mu.Unlock()
	return id, nil
}

func (b *OrderBook) Cancel(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.orders[id]; !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	delete(b.orders, id)
	return nil
}

var (
	reserveMethod = &descriptor.Method{
		Name:       "Reserve",
		Params:     []descriptor.Param{{Name: "sku"}, {Name: "qty"}},
		Void:       true,
		Descriptor: &descriptor.Descriptor{Nestable: true, Level: descriptor.LevelDebug},
	}
	placeMethod = &descriptor.Method{
		Name:   "Place",
		Params: []descriptor.Param{{Name: "sku"}, {Name: "qty"}, {Name: "card", Sensitive: true}},
	}
	cancelMethod = &descriptor.Method{
		Name:       "Cancel",
		Params:     []descriptor.Param{{Name: "id"}},
		Void:       true,
		Descriptor: &descriptor.Descriptor{Action: CancelAction},
	}

	inventoryType = descriptor.MustDefine(&descriptor.Type{
		Name:       "Inventory",
		Descriptor: &descriptor.Descriptor{},
		Methods:    []*descriptor.Method{reserveMethod},
	})
	orderServiceType = descriptor.MustDefine(&descriptor.Type{
		Name:       "OrderService",
		Descriptor: &descriptor.Descriptor{},
		Methods:    []*descriptor.Method{placeMethod, cancelMethod},
	})
)

// Register adds the metadata of the sample services to registry.
func Register(registry *descriptor.Registry) error {
	if err := registry.Register(&Stock{}, inventoryType); err != nil {
		return err
	}
	return registry.Register(&OrderBook{}, orderServiceType)
}

// Services are the decorated sample services.
type Services struct {
	Stock     *Stock
	Inventory Inventory
	Orders    Orders
}

// NewServices builds the sample services, substituting logged decorators for both.
// Register must have been called on the app's registry.
func NewServices(a *app.App, levels map[string]int) Services {
	stock := NewStock(levels)
	inventory := app.Provide[Inventory](a, stock, func(ic *interceptor.Interceptor, next Inventory) Inventory {
		return &loggedInventory{ic: ic, next: next}
	})
	orders := app.Provide[Orders](a, NewOrderBook(inventory), func(ic *interceptor.Interceptor, next Orders) Orders {
		return &loggedOrders{ic: ic, next: next}
	})
	return Services{Stock: stock, Inventory: inventory, Orders: orders}
}

type loggedInventory struct {
	ic   *interceptor.Interceptor
	next Inventory
}

func (l *loggedInventory) Reserve(ctx context.Context, sku string, qty int) error {
	return interceptor.Run(ctx, l.ic, reserveMethod, []any{sku, qty}, func(ctx context.Context) error {
		return l.next.Reserve(ctx, sku, qty)
	})
}

type loggedOrders struct {
	ic   *interceptor.Interceptor
	next Orders
}

func (l *loggedOrders) Place(ctx context.Context, sku string, qty int, card string) (string, error) {
	return interceptor.Call(ctx, l.ic, placeMethod, []any{sku, qty, card}, func(ctx context.Context) (string, error) {
		return l.next.Place(ctx, sku, qty, card)
	})
}

func (l *loggedOrders) Cancel(ctx context.Context, id string) error {
	return interceptor.Run(ctx, l.ic, cancelMethod, []any{id}, func(ctx context.Context) error {
		return l.next.Cancel(ctx, id)
	})
}
