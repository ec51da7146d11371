package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var shopper = session.Session{UserID: "user-1"}

func checkoutRoutes(h *CheckoutHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/api/pricing/quote", h.Quote)
		r.Post("/api/orders", h.PlaceOrder)
		r.Get("/api/orders/{id}", h.GetOrder)
	}
}

func TestCheckoutHandler_Quote(t *testing.T) {
	summary := &model.OrderSummary{Context: "checkout", ItemsSubtotal: 200, Vat: 9, Total: 204, TotalSource: model.TotalSourceDerived}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockCheckoutService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Normalizes the order payload",
			body: `{"order": {"data": {"items": [{"id": "P1", "price": "100", "qty": 2}], "qoyns_discount_amount": 5}}, "couponCode": "SUMMER25"}`,
			setupMock: func(m *MockCheckoutService) {
				m.On("Quote", mock.Anything, shopper, mock.MatchedBy(func(in service.QuoteInput) bool {
					return in.Context == pricing.ContextCheckout &&
						in.CouponCode == "SUMMER25" &&
						len(in.Order.Items) == 1 &&
						in.Order.Items[0].UnitPrice == 100 &&
						in.Order.Items[0].Quantity == 2 &&
						in.Order.QoynsDiscountAmount == 5
				})).Return(summary, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "History context",
			body: `{"order": {"items": []}, "context": "history"}`,
			setupMock: func(m *MockCheckoutService) {
				m.On("Quote", mock.Anything, shopper, mock.MatchedBy(func(in service.QuoteInput) bool {
					return in.Context == pricing.ContextHistory
				})).Return(summary, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown context",
			body:           `{"order": {"items": []}, "context": "cart"}`,
			setupMock:      func(m *MockCheckoutService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Order is not an object",
			body:           `{"order": "items"}`,
			setupMock:      func(m *MockCheckoutService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name: "Unknown coupon",
			body: `{"order": {"items": [{"productId": "P1", "unitPrice": 10, "quantity": 1}]}, "couponCode": "NOPE1234"}`,
			setupMock: func(m *MockCheckoutService) {
				m.On("Quote", mock.Anything, shopper, mock.Anything).Return(nil, model.ErrCouponNotFound)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeCouponNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			tt.setupMock(mockService)
			h := NewCheckoutHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/pricing/quote", bytes.NewBufferString(tt.body))
			w := serve(checkoutRoutes(h), req, shopper)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			} else {
				var got model.OrderSummary
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, 204.0, got.Total)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		ID:    orderID,
		Order: model.OrderRecord{ID: orderID, UserID: "user-1", TotalAmount: 41.5},
		Items: []model.OrderItem{
			{ProductID: "P001", Name: "Product 1", UnitPrice: 10, Quantity: 2},
		},
	}

	tests := []struct {
		name           string
		body           string
		sess           session.Session
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"items": [{"productId": "P001", "quantity": 2}], "couponCode": "WELCOME10"}`,
			sess:           shopper,
			expectService:  true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Unknown coupon",
			body:           `{"items": [{"productId": "P001", "quantity": 2}], "couponCode": "NOPE1234"}`,
			sess:           shopper,
			mockError:      model.ErrCouponNotFound,
			expectService:  true,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeCouponNotFound,
		},
		{
			name:           "Product not found",
			body:           `{"items": [{"productId": "P999", "quantity": 2}]}`,
			sess:           shopper,
			mockError:      model.ErrProductNotFound,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:           "Product unavailable",
			body:           `{"items": [{"productId": "P009", "quantity": 3}]}`,
			sess:           shopper,
			mockError:      model.ErrProductUnavailable,
			expectService:  true,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeProductUnavailable,
		},
		{
			name:           "Oversized body",
			body:           `{"items": [{"productId": "` + strings.Repeat("P", maxBodyBytes) + `", "quantity": 1}]}`,
			sess:           shopper,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   model.ErrCodePayloadTooLarge,
		},
		{
			name:           "Invalid quantity",
			body:           `{"items": [{"productId": "P001", "quantity": -1}]}`,
			sess:           shopper,
			mockError:      model.ErrInvalidQuantity,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidQuantity,
		},
		{
			name:           "Anonymous session",
			body:           `{"items": [{"productId": "P001", "quantity": 1}]}`,
			sess:           session.Session{},
			mockError:      model.ErrUnauthenticated,
			expectService:  true,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
		},
		{
			name:           "Database failure",
			body:           `{"items": [{"productId": "P001", "quantity": 1}]}`,
			sess:           shopper,
			mockError:      errors.New("failed to create order: connection reset"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
		{
			name:           "Validation error - no items",
			body:           `{"items": []}`,
			sess:           shopper,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Validation error - negative discount",
			body:           `{"items": [{"productId": "P001", "quantity": 1}], "discount": -5}`,
			sess:           shopper,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Invalid JSON",
			body:           `invalid json`,
			sess:           shopper,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("PlaceOrder", mock.Anything, tt.sess, mock.AnythingOfType("*model.OrderRequest")).Return(nil, tt.mockError)
				} else {
					mockService.On("PlaceOrder", mock.Anything, tt.sess, mock.AnythingOfType("*model.OrderRequest")).Return(testResponse, nil)
				}
			}
			h := NewCheckoutHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			w := serve(checkoutRoutes(h), req, tt.sess)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			} else {
				var got model.OrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, orderID, got.ID)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "PlaceOrder")
			}
		})
	}
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		ID:      orderID,
		Order:   model.OrderRecord{ID: orderID, UserID: "user-1", TotalAmount: 41.5},
		Summary: model.OrderSummary{Context: "history", Shipping: 9, Total: 41.5, TotalSource: model.TotalSourceServer},
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockCheckoutService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success",
			path: "/api/orders/" + orderID.String(),
			setupMock: func(m *MockCheckoutService) {
				m.On("GetOrder", mock.Anything, shopper, orderID).Return(testResponse, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not found",
			path: "/api/orders/" + orderID.String(),
			setupMock: func(m *MockCheckoutService) {
				m.On("GetOrder", mock.Anything, shopper, orderID).Return(nil, model.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeOrderNotFound,
		},
		{
			name: "Another customer's order",
			path: "/api/orders/" + orderID.String(),
			setupMock: func(m *MockCheckoutService) {
				m.On("GetOrder", mock.Anything, shopper, orderID).Return(nil, model.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   model.ErrCodeForbidden,
		},
		{
			name:           "Invalid UUID",
			path:           "/api/orders/not-a-uuid",
			setupMock:      func(m *MockCheckoutService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			tt.setupMock(mockService)
			h := NewCheckoutHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := serve(checkoutRoutes(h), req, shopper)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			} else {
				var got model.OrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, model.TotalSourceServer, got.Summary.TotalSource)
				assert.Equal(t, 9.0, got.Summary.Shipping)
			}
			mockService.AssertExpectations(t)
		})
	}
}
