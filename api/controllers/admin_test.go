package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/inventory"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubSizeReplacer struct {
	got []inventory.SizeInput
}

func (s *stubSizeReplacer) ReplaceSizes(ctx context.Context, productID uuid.UUID, sizes []inventory.SizeInput) (*models.Product, error) {
	s.got = sizes
	total := 0
	for _, size := range sizes {
		total += size.StockQuantity
	}
	return &models.Product{ID: productID, Name: "Tee", CountInStock: total}, nil
}

type stubUsers struct {
	actor, target uuid.UUID
}

func (s *stubUsers) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	s.actor, s.target = actorID, userID
	if actorID == userID {
		return pkgerrors.New(pkgerrors.CodeValidation, "admins cannot delete their own account")
	}
	return nil
}

func TestAdminReplaceProductSizes(t *testing.T) {
	t.Parallel()

	ledger := &stubSizeReplacer{}
	r := chi.NewRouter()
	r.Put("/products/{productId}/sizes", AdminReplaceProductSizes(ledger, nil))

	body := `{"sizes":[{"size":"M","stockQuantity":3},{"size":"L","stockQuantity":2,"inStock":false},{"size":"XL","stockQuantity":0}]}`
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString()+"/sizes", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, ledger.got, 3)
	require.True(t, ledger.got[0].InStock)
	require.False(t, ledger.got[1].InStock)
	require.False(t, ledger.got[2].InStock)
}

func TestAdminReplaceProductSizesRejectsNegativeStock(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Put("/products/{productId}/sizes", AdminReplaceProductSizes(&stubSizeReplacer{}, nil))

	resp := httptest.NewRecorder()
	body := `{"sizes":[{"size":"M","stockQuantity":-1}]}`
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString()+"/sizes", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	t.Parallel()

	svc := &stubUsers{}
	r := chi.NewRouter()
	r.Delete("/users/{userId}", AdminDeleteUser(svc, nil))

	admin := uuid.New()
	target := uuid.New()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, asUser(httptest.NewRequest(http.MethodDelete, "/users/"+target.String(), nil), admin))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, admin, svc.actor)
	require.Equal(t, target, svc.target)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, asUser(httptest.NewRequest(http.MethodDelete, "/users/"+admin.String(), nil), admin))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
