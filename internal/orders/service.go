package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/inventory"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, lines []inventory.Reservation) error
	Release(ctx context.Context, tx *gorm.DB, lines []inventory.Reservation) error
}

type cartClearer interface {
	ClearForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

// Service places orders and drives their lifecycle afterwards.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) (*OrderList, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// ItemInput is one requested line. Any client supplied price is ignored.
type ItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// PlaceOrderInput carries everything a placement needs besides the caller identity.
type PlaceOrderInput struct {
	Items           []ItemInput
	ShippingAddress types.ShippingAddress
	PaymentMethod   string
	Email           string
	Phone           *string
	FirstName       string
	LastName        string
}

// ListParams filters order history.
type ListParams struct {
	Page   int
	Limit  int
	Status string
}

type service struct {
	tx       txRunner
	repo     *Repository
	products *products.Repository
	ledger   stockLedger
	carts    cartClearer
	policy   pricing.Policy
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// Deps groups the collaborators of the order service.
type Deps struct {
	Tx       txRunner
	Repo     *Repository
	Products *products.Repository
	Ledger   stockLedger
	Carts    cartClearer
	Policy   pricing.Policy
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// NewService builds the order service. Metrics may be nil.
func NewService(deps Deps) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if deps.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       deps.Tx,
		repo:     deps.Repo,
		products: deps.Products,
		ledger:   deps.Ledger,
		carts:    deps.Carts,
		policy:   deps.Policy,
		metrics:  deps.Metrics,
		logg:     deps.Logger,
		now:      time.Now,
	}, nil
}

// Place validates the request, reprices it from the catalog, reserves stock,
// writes the order and clears the user's cart in one transaction.
func (s *service) Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	start := s.now()
	order, err := s.place(ctx, userID, input)
	s.metrics.ObservePlacement(failureReason(err), s.now().Sub(start))
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
		"user_id":     userID.String(),
		"total_cents": order.TotalPriceCents,
		"lines":       len(order.Items),
	})
	s.logg.Info(logCtx, "order.placed")
	return order, nil
}

func (s *service) place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	lines, err := normalizeItems(input.Items)
	if err != nil {
		return nil, err
	}
	method, err := validateContact(&input)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		catalog, err := s.products.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}

		items := make([]models.OrderItem, 0, len(lines))
		reservations := make([]inventory.Reservation, 0, len(lines))
		priced := make([]pricing.Line, 0, len(lines))
		for i, l := range lines {
			product, ok := catalog[l.ProductID]
			if !ok || !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", l.ProductID)).
					WithDetails(map[string]any{"product_id": l.ProductID})
			}
			if err := cart.CheckVariant(product, l.Size, l.Color); err != nil {
				return err
			}

			productID := product.ID
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				ProductID:      &productID,
				Position:       i,
				Name:           product.Name,
				SKU:            product.SKU,
				Image:          product.Image,
				Size:           l.Size,
				Color:          l.Color,
				UnitPriceCents: product.PriceCents,
				Quantity:       l.Quantity,
				LineTotalCents: product.PriceCents * l.Quantity,
			})
			reservations = append(reservations, inventory.Reservation{
				ProductID:   product.ID,
				ProductName: product.Name,
				Size:        l.Size,
				Quantity:    l.Quantity,
			})
			priced = append(priced, pricing.Line{UnitPriceCents: product.PriceCents, Quantity: l.Quantity})
		}

		if err := s.ledger.Reserve(ctx, tx, reservations); err != nil {
			return err
		}

		quote := s.policy.Quote(priced)
		record := &models.Order{
			ID:                 uuid.New(),
			UserID:             userID,
			ShippingAddress:    input.ShippingAddress,
			PaymentMethod:      method,
			ItemsPriceCents:    quote.ItemsPrice,
			TaxPriceCents:      quote.TaxPrice,
			ShippingPriceCents: quote.ShippingPrice,
			TotalPriceCents:    quote.TotalPrice,
			Email:              input.Email,
			Phone:              input.Phone,
			FirstName:          input.FirstName,
			LastName:           input.LastName,
			Status:             enums.OrderStatusPending,
			Items:              items,
		}
		for i := range record.Items {
			record.Items[i].OrderID = record.ID
		}
		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.carts.ClearForUser(ctx, tx, userID); err != nil {
			return err
		}
		order = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the caller's order history, optionally filtered by status.
func (s *service) List(ctx context.Context, userID uuid.UUID, params ListParams) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	var status *enums.OrderStatus
	if raw := strings.TrimSpace(params.Status); raw != "" {
		parsed, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
				WithDetails(map[string]any{"allowed": enums.OrderStatusNames()})
		}
		status = &parsed
	}
	page := pagination.Page{Page: params.Page, Limit: params.Limit}.Normalize()
	rows, total, err := s.repo.ListForUser(ctx, userID, page, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newOrderList(rows, page, total), nil
}

// Get returns one order owned by userID.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return order, nil
}

// UpdateStatus applies an admin status transition. Cancelling restocks every
// line in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	var previous enums.OrderStatus
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return mapFindErr(err)
		}
		previous = order.Status
		if !order.Status.CanTransitionTo(next) {
			return transitionConflict(order.Status, next)
		}

		now := s.now().UTC()
		updates := map[string]any{"status": next, "updated_at": now}
		switch next {
		case enums.OrderStatusDelivered:
			updates["is_delivered"] = true
			updates["delivered_at"] = now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
		}
		ok, err := repo.TransitionStatus(ctx, order.ID, order.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return transitionConflict(order.Status, next)
		}

		if next == enums.OrderStatusCancelled {
			if err := s.ledger.Release(ctx, tx, restockLines(order)); err != nil {
				return err
			}
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{
		"from": string(previous),
		"to":   string(next),
	})
	s.logg.Info(logCtx, "order.status_changed")
	return updated, nil
}

// MarkPaid records payment. Paying an already paid order is a no-op; a cancelled
// order cannot be paid.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return mapFindErr(err)
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be marked paid")
		}
		if order.IsPaid {
			updated = order
			return nil
		}
		ok, err := repo.MarkPaid(ctx, order.ID, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed while marking it paid")
		}
		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID.String()), "order.paid")
	return updated, nil
}

// normalizeItems trims variant names and sums duplicate lines, keeping first-seen order.
func normalizeItems(items []ItemInput) ([]ItemInput, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	out := make([]ItemInput, 0, len(items))
	index := make(map[cart.LineKey]int, len(items))
	for _, it := range items {
		if it.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item productId is required")
		}
		if it.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity for product %s must be at least 1", it.ProductID))
		}
		key := cart.NewLineKey(it.ProductID, it.Size, it.Color)
		if idx, ok := index[key]; ok {
			out[idx].Quantity = min(out[idx].Quantity, math.MaxInt-it.Quantity) + it.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, ItemInput{ProductID: key.ProductID, Size: key.Size, Color: key.Color, Quantity: it.Quantity})
	}
	return out, nil
}

func validateContact(input *PlaceOrderInput) (enums.PaymentMethod, error) {
	input.ShippingAddress.Normalize()
	if input.ShippingAddress.Street == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shipping address street is required")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"allowed": enums.PaymentMethodNames()})
	}
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	var missing []string
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if input.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if input.LastName == "" {
		missing = append(missing, "lastName")
	}
	if len(missing) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "missing contact fields").
			WithDetails(map[string]any{"fields": missing})
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			input.Phone = nil
		} else {
			input.Phone = &phone
		}
	}
	return method, nil
}

func restockLines(order *models.Order) []inventory.Reservation {
	out := make([]inventory.Reservation, 0, len(order.Items))
	for _, it := range order.Items {
		if it.ProductID == nil {
			continue
		}
		out = append(out, inventory.Reservation{
			ProductID:   *it.ProductID,
			ProductName: it.Name,
			Size:        it.Size,
			Quantity:    it.Quantity,
		})
	}
	return out
}

func transitionConflict(from, to enums.OrderStatus) error {
	msg := fmt.Sprintf("cannot move order from %s to %s", from, to)
	if from.IsTerminal() {
		msg = fmt.Sprintf("order is already %s", from)
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]any{"from": from, "to": to})
}

func mapFindErr(err error) error {
	if repo.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func failureReason(err error) string {
	if err == nil {
		return ""
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "internal"
}
