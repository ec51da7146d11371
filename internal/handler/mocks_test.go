package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id, slug string) (*service.ProductPage, error) {
	args := m.Called(ctx, id, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductPage), args.Error(1)
}

func (m *MockCatalogService) Resolve(ctx context.Context, productID string, selected model.VariantAttributes) (*service.Resolution, error) {
	args := m.Called(ctx, productID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Resolution), args.Error(1)
}

func (m *MockCatalogService) ResolvePayload(ctx context.Context, payload model.CatalogPayload, selected model.VariantAttributes, target string) (*service.Resolution, error) {
	args := m.Called(ctx, payload, selected, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Resolution), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, sess session.Session, in service.QuoteInput) (*model.OrderSummary, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderSummary), args.Error(1)
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, sess session.Session, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, sess session.Session, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// serve routes req through a chi router so URL parameters resolve, with sess in the context.
func serve(register func(chi.Router), req *http.Request, sess session.Session) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.WithSession(req.Context(), sess)))
		})
	})
	register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
