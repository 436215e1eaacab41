package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront-backend/database"
	"storefront-backend/models"
)

// StockCeiling is a client-reported stock limit. A value that does not
// decode as an integer is treated as unknown instead of failing the whole
// payload; unknown falls back to the default ceiling.
type StockCeiling int

func (s *StockCeiling) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*s = 0
		return nil
	}
	*s = StockCeiling(n)
	return nil
}

// AddItemRequest carries one add-to-cart action. MaxStock is the stock
// ceiling known to the caller at add-time; zero or negative means unknown.
type AddItemRequest struct {
	Name     string       `json:"name"`
	Price    float64      `json:"price"`
	Image    string       `json:"image"`
	MaxStock StockCeiling `json:"max_stock"`
	Quantity int          `json:"quantity"`
}

// CartService implements the cart model over an injected blob store. Line
// items are keyed by name; every mutation enforces the stock ceiling, then
// persists and notifies the change observer synchronously.
type CartService struct {
	store  database.CartStore
	logger *zap.Logger
	// onChange is invoked with the new item count after every persisted
	// mutation (badge counters and similar consumers). Optional.
	onChange func(userID string, count int)
}

func NewCartService(store database.CartStore, logger *zap.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

// SetChangeObserver registers the callback notified after each persisted
// mutation. Must be called before the service starts handling requests.
func (s *CartService) SetChangeObserver(fn func(userID string, count int)) {
	s.onChange = fn
}

// GetCart loads and validates the caller's cart. A missing or malformed
// blob yields an empty cart, never an error to the caller.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}
	return cart, nil
}

// AddItem merges the item into the cart. An item with a name already in the
// cart merges quantities and refreshes the stock ceiling (last write wins);
// a new name appends a line. The add is rejected, with no mutation, when
// the quantity is not positive or the resulting quantity would exceed the
// ceiling.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddItemRequest) (*models.Cart, *ServiceError) {
	if req.Name == "" {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Item name is required"}
	}
	if req.Quantity < 1 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Please enter a valid quantity."}
	}

	limit := int(req.MaxStock)
	if limit <= 0 {
		limit = models.DefaultMaxStock
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}

	found := false
	for i, existing := range cart.Items {
		if existing.Name != req.Name {
			continue
		}
		newTotal := existing.Quantity + req.Quantity
		if newTotal > limit {
			return nil, &ServiceError{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Stock limit reached! You have %d in cart.", existing.Quantity),
			}
		}
		cart.Items[i].Quantity = newTotal
		cart.Items[i].MaxStock = limit
		found = true
		break
	}

	if !found {
		if req.Quantity > limit {
			return nil, &ServiceError{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Sorry, only %d units available.", limit),
			}
		}
		cart.Items = append(cart.Items, models.CartItem{
			Name:     req.Name,
			Price:    req.Price,
			Image:    req.Image,
			Quantity: req.Quantity,
			MaxStock: limit,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of the line at index. A quantity above
// the line's stock ceiling is rejected without mutation; zero or below
// removes the line entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, index, quantity int) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}

	if index < 0 || index >= len(cart.Items) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Cart item not found"}
	}

	limit := cart.Items[index].MaxStock
	if limit <= 0 {
		limit = models.DefaultMaxStock
	}
	if quantity > limit {
		return nil, &ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Sorry, only %d units available in stock.", limit),
		}
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = quantity
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem removes the line at index. An out-of-range index is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID string, index int) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}

	if index < 0 || index >= len(cart.Items) {
		return cart, nil
	}

	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties and persists the cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.store.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to clear cart", zap.String("user", userID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to clear cart"}
	}
	s.notify(userID, 0)
	return nil
}

// load reads the persisted blob and validates it entry by entry. Entries
// with a missing name, mistyped fields, or a non-positive quantity are
// dropped; a blob that is not a JSON array resets the cart to empty.
func (s *CartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

	blob, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return cart, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		s.logger.Warn("malformed cart blob reset", zap.String("user", userID))
		return cart, nil
	}

	for _, entry := range raw {
		var item models.CartItem
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

// save persists the cart as a JSON array of line items and notifies the
// change observer.
func (s *CartService) save(ctx context.Context, cart *models.Cart) *ServiceError {
	cart.UpdatedAt = time.Now()

	blob, err := json.Marshal(cart.Items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.String("user", cart.UserID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save cart"}
	}

	if err := s.store.Set(ctx, cart.UserID, blob); err != nil {
		s.logger.Error("failed to save cart", zap.String("user", cart.UserID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save cart"}
	}

	s.notify(cart.UserID, cart.Count())
	return nil
}

func (s *CartService) notify(userID string, count int) {
	if s.onChange != nil {
		s.onChange(userID, count)
	}
}
