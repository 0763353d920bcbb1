package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes the public catalog reads.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CheckAvailability(ctx context.Context, id uuid.UUID, size string, qty int) (*AvailabilityDTO, error)
}

type availabilityChecker interface {
	CheckAvailability(ctx context.Context, productID uuid.UUID, size string, qty int) (bool, error)
}

type service struct {
	repo   *Repository
	ledger availabilityChecker
}

// NewService constructs the catalog service.
func NewService(repo *Repository, ledger availabilityChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	return &service{repo: repo, ledger: ledger}, nil
}

// GetProduct returns an active product with its variants.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

// CheckAvailability reports whether qty units of the variant can be sold right now.
func (s *service) CheckAvailability(ctx context.Context, id uuid.UUID, size string, qty int) (*AvailabilityDTO, error) {
	if qty == 0 {
		qty = 1
	}
	size = strings.TrimSpace(size)
	ok, err := s.ledger.CheckAvailability(ctx, id, size, qty)
	if err != nil {
		return nil, err
	}
	return &AvailabilityDTO{ProductID: id, Size: size, Quantity: qty, Available: ok}, nil
}
