package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

type QuoteRequestInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

type QuoteService struct {
	quoteRepo repository.QuoteRepository
	logger    *zap.Logger
}

func NewQuoteService(quoteRepo repository.QuoteRepository, logger *zap.Logger) *QuoteService {
	return &QuoteService{quoteRepo: quoteRepo, logger: logger}
}

func (s *QuoteService) CreateQuote(ctx context.Context, input *QuoteRequestInput) (string, *ServiceError) {
	if input.Name == "" || input.Email == "" || input.Phone == "" || input.Message == "" {
		return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: "Name, email, phone and message are required"}
	}

	quote := models.QuoteRequest{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Service:   input.Service,
		Message:   input.Message,
		CreatedAt: time.Now(),
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		s.logger.Error("failed to store quote request", zap.Error(err))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to submit quote request"}
	}

	s.logger.Info("quote request received", zap.String("quote_id", quote.ID))
	return quote.ID, nil
}

func (s *QuoteService) ListQuotes(ctx context.Context) ([]models.QuoteRequest, *ServiceError) {
	quotes, err := s.quoteRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list quotes", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch quotes"}
	}
	return quotes, nil
}
