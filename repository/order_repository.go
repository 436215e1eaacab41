package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"storefront-backend/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access. The store is
// volatile: records live for the lifetime of the process and are never
// deleted, only transitioned.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]models.Order, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutID string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	// Mutate applies fn to the stored order under the store lock and
	// persists the result, so a status check and the write it guards
	// cannot be interleaved with another writer. fn returning an error
	// discards the mutation.
	Mutate(ctx context.Context, orderID string, fn func(order *models.Order) error) error
}

// MemoryOrderRepository implements OrderRepository over an in-process map.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	// insertion sequence, used to keep listing order stable among orders
	// created within the same timestamp
	seq map[string]int
	n   int
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
		seq:    make(map[string]int),
	}
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return errors.New("duplicate order id: " + order.ID)
	}
	r.orders[order.ID] = cloneOrder(*order)
	r.n++
	r.seq[order.ID] = r.n
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order = cloneOrder(order)
	return &order, nil
}

// FindByCustomerEmail returns the customer's orders newest first. The match
// is exact and case-sensitive.
func (r *MemoryOrderRepository) FindByCustomerEmail(_ context.Context, email string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.Customer.Email == email {
			orders = append(orders, cloneOrder(order))
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return r.seq[orders[i].ID] > r.seq[orders[j].ID]
	})

	return orders, nil
}

func (r *MemoryOrderRepository) FindByCheckoutRequestID(_ context.Context, checkoutID string) (*models.Order, error) {
	if checkoutID == "" {
		return nil, ErrOrderNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Payment.CheckoutRequestID == checkoutID {
			order = cloneOrder(order)
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *MemoryOrderRepository) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *MemoryOrderRepository) Mutate(_ context.Context, orderID string, fn func(order *models.Order) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}

	order := cloneOrder(stored)
	if err := fn(&order); err != nil {
		return err
	}
	r.orders[orderID] = cloneOrder(order)
	return nil
}

// cloneOrder deep-copies an order so callers never share the stored slice.
func cloneOrder(o models.Order) models.Order {
	items := make([]models.LineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	if o.Payment.PaidAt != nil {
		paidAt := *o.Payment.PaidAt
		o.Payment.PaidAt = &paidAt
	}
	return o
}
