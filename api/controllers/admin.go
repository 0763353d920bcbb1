package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/inventory"
	productsvc "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// SizeReplacer overwrites the stock rows of a product.
type SizeReplacer interface {
	ReplaceSizes(ctx context.Context, productID uuid.UUID, sizes []inventory.SizeInput) (*models.Product, error)
}

type replaceSizesRequest struct {
	Sizes []sizeRequest `json:"sizes" validate:"max=100,dive"`
}

type sizeRequest struct {
	Size          string `json:"size" validate:"required,nonblank,max=50"`
	InStock       *bool  `json:"inStock,omitempty"`
	StockQuantity int    `json:"stockQuantity" validate:"min=0"`
}

func (r replaceSizesRequest) toInputs() []inventory.SizeInput {
	out := make([]inventory.SizeInput, 0, len(r.Sizes))
	for _, s := range r.Sizes {
		inStock := s.StockQuantity > 0
		if s.InStock != nil {
			inStock = *s.InStock
		}
		out = append(out, inventory.SizeInput{Size: s.Size, InStock: inStock, StockQuantity: s.StockQuantity})
	}
	return out
}

// AdminReplaceProductSizes overwrites per-size stock and returns the refreshed product.
func AdminReplaceProductSizes(ledger SizeReplacer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock ledger unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceSizesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := ledger.ReplaceSizes(r.Context(), productID, payload.toInputs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithField(logg.WithProductID(r.Context(), productID.String()), "count_in_stock", product.CountInStock)
			logg.Info(ctx, "product.stock_replaced")
		}

		responses.WriteSuccess(w, productsvc.NewProductDTO(product))
	}
}

// AdminDeleteUser removes a user together with their orders, cart and favorites.
func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		actorID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
