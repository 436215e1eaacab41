package repository

import (
	"context"
	"sync"

	"storefront-backend/models"
)

// QuoteRepository stores quote requests for the process lifetime.
type QuoteRepository interface {
	Create(ctx context.Context, quote models.QuoteRequest) error
	FindAll(ctx context.Context) ([]models.QuoteRequest, error)
}

type MemoryQuoteRepository struct {
	mu     sync.Mutex
	quotes []models.QuoteRequest
}

func NewMemoryQuoteRepository() *MemoryQuoteRepository {
	return &MemoryQuoteRepository{}
}

func (r *MemoryQuoteRepository) Create(_ context.Context, quote models.QuoteRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = append(r.quotes, quote)
	return nil
}

// FindAll returns quotes newest first.
func (r *MemoryQuoteRepository) FindAll(_ context.Context) ([]models.QuoteRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.QuoteRequest, len(r.quotes))
	for i, q := range r.quotes {
		out[len(r.quotes)-1-i] = q
	}
	return out, nil
}
