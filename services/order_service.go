package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront-backend/kafka"
	"storefront-backend/models"
	"storefront-backend/repository"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

type CreateOrderRequest struct {
	Items    []models.LineItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Tax      float64           `json:"tax"`
	Shipping float64           `json:"shipping"`
	Total    float64           `json:"total"`
	Customer models.Customer   `json:"customer"`
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	producer    kafka.ProducerAPI
	idGen       IDGenerator
	now         func() time.Time
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	producer kafka.ProducerAPI,
	idGen IDGenerator,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		producer:    producer,
		idGen:       idGen,
		now:         time.Now,
		logger:      logger,
	}
}

// CreateOrder stores a new pending, unpaid order and returns its ID. Items
// that name a known catalog product are stock-checked and deducted; items
// for unknown products pass through untouched.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (string, *ServiceError) {
	if len(req.Items) == 0 || req.Customer.Email == "" {
		return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid order data"}
	}

	if s.productRepo != nil {
		if err := s.productRepo.DeductStock(ctx, req.Items); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: err.Error()}
			}
			s.logger.Error("stock deduction failed", zap.Error(err))
			return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to process order"}
		}
	}

	order := &models.Order{
		ID:        s.idGen.NextOrderID(),
		Items:     req.Items,
		Subtotal:  req.Subtotal,
		Tax:       req.Tax,
		Shipping:  req.Shipping,
		Amount:    req.Total,
		Customer:  req.Customer,
		Status:    models.OrderStatusPending,
		Payment:   models.PaymentInfo{Status: models.PaymentStatusUnpaid},
		CreatedAt: s.now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if s.productRepo != nil {
			s.productRepo.Restock(ctx, req.Items)
		}
		s.logger.Error("failed to store order", zap.String("order_id", order.ID), zap.Error(err))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create order"}
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Float64("amount", order.Amount),
	)

	s.publishEvent("order.created", order)
	return order.ID, nil
}

// GetOrder is a pure lookup.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch order"}
	}
	return order, nil
}

// ListByCustomer returns the caller's orders, newest first. The email match
// is exact and case-sensitive.
func (s *OrderService) ListByCustomer(ctx context.Context, email string) ([]models.Order, *ServiceError) {
	if email == "" {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized. Please log in."}
	}

	orders, err := s.orderRepo.FindByCustomerEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

var (
	errCancelForbidden    = errors.New("cancel forbidden")
	errOrderNotCancelable = errors.New("order not cancelable")
)

// CancelOrder cancels the order after checking, in this exact precedence:
// the order exists, the requester owns it, and the status allows it.
// Cancellation is terminal. The checks and the write run atomically so a
// concurrent payment confirmation cannot overwrite the canceled status.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, requesterEmail string) *ServiceError {
	var canceled models.Order
	err := s.orderRepo.Mutate(ctx, orderID, func(order *models.Order) error {
		if order.Customer.Email != requesterEmail {
			return errCancelForbidden
		}
		if !order.CanCancel() {
			return errOrderNotCancelable
		}
		order.Status = models.OrderStatusCanceled
		canceled = *order
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrOrderNotFound):
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
	case errors.Is(err, errCancelForbidden):
		return &ServiceError{StatusCode: http.StatusForbidden, Message: "Forbidden"}
	case errors.Is(err, errOrderNotCancelable):
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Can only cancel pending or processing orders"}
	default:
		s.logger.Error("failed to cancel order", zap.String("order_id", orderID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to cancel order"}
	}

	if s.productRepo != nil {
		s.productRepo.Restock(ctx, canceled.Items)
	}

	s.logger.Info("order canceled", zap.String("order_id", orderID))
	s.publishEvent("order.canceled", &canceled)
	return nil
}

func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.producer == nil {
		return
	}
	// best-effort; the producer logs its own failures
	_ = s.producer.SendOrderEvent(models.OrderEvent{
		Event:     event,
		OrderID:   order.ID,
		Email:     order.Customer.Email,
		Amount:    order.Amount,
		Timestamp: s.now().UTC(),
	})
}
