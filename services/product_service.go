package services

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

type ProductService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// SearchProducts returns catalog entries matching the query; an empty query
// returns the whole catalog.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, *ServiceError) {
	products, err := s.productRepo.Search(ctx, query)
	if err != nil {
		s.logger.Error("failed to search products", zap.String("query", query), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch products"}
	}
	return products, nil
}
