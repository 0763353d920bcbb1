package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	productsvc "github.com/angelmondragon/storefront-backend/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubProductService struct {
	product  *productsvc.ProductDTO
	err      error
	lastSize string
	lastQty  int
}

func (s *stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) CheckAvailability(ctx context.Context, id uuid.UUID, size string, qty int) (*productsvc.AvailabilityDTO, error) {
	s.lastSize, s.lastQty = size, qty
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.AvailabilityDTO{ProductID: id, Size: size, Quantity: qty, Available: true}, nil
}

func productRouter(svc productsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/products/{productId}", PublicGetProduct(svc, nil))
	r.Get("/products/{productId}/availability", PublicProductAvailability(svc, nil))
	return r
}

func TestPublicGetProduct(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &stubProductService{product: &productsvc.ProductDTO{ID: id, Name: "Tee", PriceCents: 2000}}

	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, id, envelope.Data.ID)
	require.Equal(t, 2000, envelope.Data.PriceCents)
}

func TestPublicGetProductErrors(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	productRouter(&stubProductService{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	missing := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	resp = httptest.NewRecorder()
	productRouter(missing).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPublicProductAvailability(t *testing.T) {
	t.Parallel()

	svc := &stubProductService{}
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString()+"/availability?size=M&qty=3", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "M", svc.lastSize)
	require.Equal(t, 3, svc.lastQty)

	resp = httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString()+"/availability?qty=zero", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
