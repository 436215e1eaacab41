package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"storefront-backend/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository holds the catalog and its stock counts.
type ProductRepository interface {
	Upsert(ctx context.Context, product models.Product) error
	FindByName(ctx context.Context, name string) (*models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	// DeductStock deducts the requested quantities all-or-nothing; no line
	// is deducted unless every line can be satisfied. Items naming unknown
	// products are skipped rather than rejected.
	DeductStock(ctx context.Context, items []models.LineItem) error
	// Restock returns quantities to the shelf, e.g. after a cancellation.
	Restock(ctx context.Context, items []models.LineItem)
}

type MemoryProductRepository struct {
	mu       sync.Mutex
	products map[string]models.Product // keyed by name
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]models.Product)}
}

func (r *MemoryProductRepository) Upsert(_ context.Context, product models.Product) error {
	if product.Name == "" {
		return errors.New("product name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.Name] = product
	return nil
}

func (r *MemoryProductRepository) FindByName(_ context.Context, name string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[name]
	if !ok {
		return nil, fmt.Errorf("product %q not found", name)
	}
	return &product, nil
}

// Search matches the query against name and category, case-insensitive.
// An empty query returns the whole catalog, sorted by name.
func (r *MemoryProductRepository) Search(_ context.Context, query string) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	results := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			results = append(results, p)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (r *MemoryProductRepository) DeductStock(_ context.Context, items []models.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Aggregate per product first: duplicate-named lines draw from the same
	// stock pool and must be validated as one demand.
	needed := make(map[string]int)
	for _, item := range items {
		if _, ok := r.products[item.Name]; !ok {
			continue
		}
		needed[item.Name] += item.Quantity
	}

	for name, qty := range needed {
		if product := r.products[name]; product.Stock < qty {
			return fmt.Errorf("%w for %q: only %d left", ErrInsufficientStock, name, product.Stock)
		}
	}

	for name, qty := range needed {
		product := r.products[name]
		product.Stock -= qty
		r.products[name] = product
	}
	return nil
}

func (r *MemoryProductRepository) Restock(_ context.Context, items []models.LineItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		product, ok := r.products[item.Name]
		if !ok || item.Quantity <= 0 {
			continue
		}
		product.Stock += item.Quantity
		r.products[item.Name] = product
	}
}
