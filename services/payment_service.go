package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-backend/kafka"
	"storefront-backend/models"
	"storefront-backend/repository"
)

// PaymentResult is the resolved outcome of a payment confirmation, applied
// to an order by ApplyPaymentResult.
type PaymentResult struct {
	Paid          bool
	ReceiptNumber string
	Phone         string
	FailureReason string
}

// PaymentService initiates payment attempts and applies confirmations.
// There is no real gateway behind it: initiation schedules a delayed
// simulated confirmation, and the callback endpoint feeds externally pushed
// results through the same apply path.
type PaymentService struct {
	orderRepo repository.OrderRepository
	producer  kafka.ProducerAPI
	delay     time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer // order ID -> scheduled confirmation
	closed  bool
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	producer kafka.ProducerAPI,
	delay time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		producer:  producer,
		delay:     delay,
		logger:    logger,
		pending:   make(map[string]*time.Timer),
	}
}

// InitiatePayment acks immediately and schedules the simulated confirmation
// after the configured delay. The caller is expected to poll the order to
// observe the payment status change. Returns the checkout request ID the
// confirmation channel will use to reference this attempt.
func (s *PaymentService) InitiatePayment(ctx context.Context, orderID, phone string) (string, *ServiceError) {
	checkoutID := uuid.NewString()
	var amount float64
	err := s.orderRepo.Mutate(ctx, orderID, func(order *models.Order) error {
		order.Payment.CheckoutRequestID = checkoutID
		amount = order.Amount
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return "", &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		s.logger.Error("failed to record checkout request", zap.String("order_id", orderID), zap.Error(err))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to initiate payment"}
	}

	s.logger.Info("payment initiated",
		zap.String("order_id", orderID),
		zap.String("phone", phone),
		zap.Float64("amount", amount),
	)

	s.schedule(orderID, phone)
	return checkoutID, nil
}

// schedule arms the delayed confirmation timer for the order. A re-initiated
// payment replaces any previously scheduled confirmation.
func (s *PaymentService) schedule(orderID, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if prev, ok := s.pending[orderID]; ok {
		prev.Stop()
	}
	s.pending[orderID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.pending, orderID)
		s.mu.Unlock()

		s.ApplyPaymentResult(context.Background(), orderID, PaymentResult{Paid: true, Phone: phone})
	})
}

// errResultNotApplied aborts a Mutate whose outcome was dropped by one of
// the idempotency/terminal-status guards.
var errResultNotApplied = errors.New("payment result not applied")

// ApplyPaymentResult applies a resolved payment outcome to an order. It is
// idempotent: an already-paid order is never touched again, and a paid
// confirmation against a canceled order is dropped (cancellation wins the
// race). The guards and the write share the store lock, so a cancel landing
// mid-confirmation can never be overwritten. A vanished order is a silent
// no-op.
func (s *PaymentService) ApplyPaymentResult(ctx context.Context, orderID string, result PaymentResult) {
	var applied models.Order
	err := s.orderRepo.Mutate(ctx, orderID, func(order *models.Order) error {
		if order.Payment.Status == models.PaymentStatusPaid {
			s.logger.Info("duplicate payment confirmation ignored", zap.String("order_id", orderID))
			return errResultNotApplied
		}

		if result.Paid {
			if order.Status == models.OrderStatusCanceled {
				s.logger.Warn("payment confirmation rejected for canceled order",
					zap.String("order_id", orderID),
				)
				return errResultNotApplied
			}

			now := time.Now()
			order.Payment.Status = models.PaymentStatusPaid
			order.Payment.PaidAt = &now
			order.Payment.ReceiptNumber = result.ReceiptNumber
			if result.Phone != "" {
				order.Payment.Phone = result.Phone
			}
			order.Payment.FailureReason = ""
			if order.Status == models.OrderStatusPending {
				order.Status = models.OrderStatusProcessing
			}
		} else {
			// A declined payment does not cancel the order; the customer can retry.
			order.Payment.Status = models.PaymentStatusFailed
			order.Payment.FailureReason = result.FailureReason
		}

		applied = *order
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrOrderNotFound):
		s.logger.Debug("payment result for unknown order dropped", zap.String("order_id", orderID))
		return
	case errors.Is(err, errResultNotApplied):
		return
	default:
		s.logger.Error("failed to apply payment result", zap.String("order_id", orderID), zap.Error(err))
		return
	}

	event := "payment.failed"
	if result.Paid {
		event = "payment.paid"
	}
	s.logger.Info(event, zap.String("order_id", orderID))

	if s.producer != nil {
		_ = s.producer.SendOrderEvent(models.OrderEvent{
			Event:     event,
			OrderID:   applied.ID,
			Email:     applied.Customer.Email,
			Amount:    applied.Amount,
			Timestamp: time.Now().UTC(),
		})
	}
}

// HandleCallback processes an externally pushed payment result payload.
// Payloads that do not parse or match no known checkout request are logged
// and dropped; the channel is acknowledged regardless.
func (s *PaymentService) HandleCallback(ctx context.Context, payload []byte) {
	var cb models.PaymentCallback
	if err := json.Unmarshal(payload, &cb); err != nil || cb.Body.StkCallback.CheckoutRequestID == "" {
		s.logger.Warn("unrecognized payment callback payload")
		return
	}

	stk := cb.Body.StkCallback
	order, err := s.orderRepo.FindByCheckoutRequestID(ctx, stk.CheckoutRequestID)
	if err != nil {
		s.logger.Warn("payment callback matched no order",
			zap.String("checkout_request_id", stk.CheckoutRequestID),
		)
		return
	}

	// A confirmation delivered out-of-band supersedes the pending simulation.
	s.cancelPending(order.ID)

	// ResultCode 0 means the customer completed the payment
	if stk.ResultCode == 0 {
		s.ApplyPaymentResult(ctx, order.ID, PaymentResult{
			Paid:          true,
			ReceiptNumber: cb.MetadataString("MpesaReceiptNumber"),
			Phone:         cb.MetadataString("PhoneNumber"),
		})
		return
	}

	s.ApplyPaymentResult(ctx, order.ID, PaymentResult{
		Paid:          false,
		FailureReason: stk.ResultDesc,
	})
}

func (s *PaymentService) cancelPending(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[orderID]; ok {
		timer.Stop()
		delete(s.pending, orderID)
	}
}

// Close stops all scheduled confirmations. Used on shutdown.
func (s *PaymentService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for orderID, timer := range s.pending {
		timer.Stop()
		delete(s.pending, orderID)
	}
}
