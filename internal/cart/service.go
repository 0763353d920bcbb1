package cart

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/inventory"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	storeLabelDurable = "durable"
	storeLabelGuest   = "guest"
)

// Service reconciles cart edits against the catalog and current stock.
type Service interface {
	Get(ctx context.Context, auth AuthState) (*View, error)
	AddLine(ctx context.Context, auth AuthState, input LineInput) (*View, error)
	UpdateQuantity(ctx context.Context, auth AuthState, key LineKey, qty int) (*View, error)
	RemoveLine(ctx context.Context, auth AuthState, key LineKey) (*View, error)
	Clear(ctx context.Context, auth AuthState) (*View, error)
	Replace(ctx context.Context, auth AuthState, lines []LineInput) (*View, error)
	Merge(ctx context.Context, userID uuid.UUID, guestToken string) (*View, error)
	ClearForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

type service struct {
	durable  *DurableStore
	guest    CartStore
	products productLoader
	policy   pricing.Policy
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the cart reconciler. metrics may be nil.
func NewService(durable *DurableStore, guest CartStore, products productLoader, policy pricing.Policy, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if durable == nil {
		return nil, fmt.Errorf("durable cart store required")
	}
	if guest == nil {
		return nil, fmt.Errorf("guest cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		durable:  durable,
		guest:    guest,
		products: products,
		policy:   policy,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) storeFor(auth AuthState) (CartStore, string) {
	if auth.IsGuest() {
		return s.guest, storeLabelGuest
	}
	return s.durable, storeLabelDurable
}

func (s *service) load(ctx context.Context, auth AuthState) ([]Line, CartStore, string, error) {
	if err := auth.validate(); err != nil {
		return nil, nil, "", err
	}
	store, label := s.storeFor(auth)
	lines, err := store.Load(ctx, auth)
	if err != nil {
		return nil, nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return lines, store, label, nil
}

func (s *service) save(ctx context.Context, auth AuthState, store CartStore, label, op string, lines []Line) error {
	if err := store.Save(ctx, auth, lines); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	s.metrics.IncCartMutation(op, label)
	return nil
}

// Get returns the cart with stock ceilings refreshed and a price quote.
func (s *service) Get(ctx context.Context, auth AuthState) (*View, error) {
	lines, _, _, err := s.load(ctx, auth)
	if err != nil {
		return nil, err
	}
	if err := s.refreshMaxQuantities(ctx, lines); err != nil {
		return nil, err
	}
	return s.view(lines, nil), nil
}

// AddLine adds qty units of a variant, clamping to the variant stock. Re-adding an
// existing line increases its quantity and keeps its price snapshot.
func (s *service) AddLine(ctx context.Context, auth AuthState, input LineInput) (*View, error) {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	key := NewLineKey(input.ProductID, input.Size, input.Color)

	product, err := s.loadProduct(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	if reason := variantProblem(product, key); reason != "" {
		return nil, variantError(product, key, reason)
	}
	stock := inventory.VariantStock(product, key.Size)
	if stock <= 0 {
		return nil, outOfStockError(product, key, input.Quantity, stock)
	}

	lines, store, label, err := s.load(ctx, auth)
	if err != nil {
		return nil, err
	}
	if idx := findLine(lines, key); idx >= 0 {
		lines[idx].Quantity = min(addQuantity(lines[idx].Quantity, min(input.Quantity, stock)), stock)
		lines[idx].MaxQuantity = stock
	} else {
		lines = append(lines, Line{
			ProductID:      key.ProductID,
			Size:           key.Size,
			Color:          key.Color,
			Name:           product.Name,
			Image:          product.Image,
			UnitPriceCents: product.PriceCents,
			Quantity:       min(input.Quantity, stock),
			MaxQuantity:    stock,
			AddedAt:        s.now().UTC(),
		})
	}
	if err := s.save(ctx, auth, store, label, "add", lines); err != nil {
		return nil, err
	}
	return s.view(lines, nil), nil
}

// UpdateQuantity sets a line's quantity clamped to [1, stock]. qty <= 0 removes the line.
// A sold-out variant is reported as OUT_OF_STOCK and the cart is left as it was.
func (s *service) UpdateQuantity(ctx context.Context, auth AuthState, key LineKey, qty int) (*View, error) {
	key = NewLineKey(key.ProductID, key.Size, key.Color)
	lines, store, label, err := s.load(ctx, auth)
	if err != nil {
		return nil, err
	}
	idx := findLine(lines, key)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if qty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
		if err := s.save(ctx, auth, store, label, "remove", lines); err != nil {
			return nil, err
		}
		return s.view(lines, nil), nil
	}

	product, err := s.loadProduct(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	stock := inventory.VariantStock(product, key.Size)
	if stock <= 0 {
		return nil, outOfStockError(product, key, qty, stock)
	}
	lines[idx].Quantity = min(qty, stock)
	lines[idx].MaxQuantity = stock
	if err := s.save(ctx, auth, store, label, "update", lines); err != nil {
		return nil, err
	}
	return s.view(lines, nil), nil
}

// RemoveLine deletes one line. Removing a missing line is a no-op.
func (s *service) RemoveLine(ctx context.Context, auth AuthState, key LineKey) (*View, error) {
	key = NewLineKey(key.ProductID, key.Size, key.Color)
	lines, store, label, err := s.load(ctx, auth)
	if err != nil {
		return nil, err
	}
	idx := findLine(lines, key)
	if idx < 0 {
		return s.view(lines, nil), nil
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	if err := s.save(ctx, auth, store, label, "remove", lines); err != nil {
		return nil, err
	}
	return s.view(lines, nil), nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, auth AuthState) (*View, error) {
	if err := auth.validate(); err != nil {
		return nil, err
	}
	store, label := s.storeFor(auth)
	if err := store.Clear(ctx, auth); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncCartMutation("clear", label)
	return s.view(nil, nil), nil
}

// Replace overwrites the cart with the supplied lines after revalidating each one.
// Lines already in the cart keep their price snapshot; invalid lines are dropped.
func (s *service) Replace(ctx context.Context, auth AuthState, inputs []LineInput) (*View, error) {
	current, store, label, err := s.load(ctx, auth)
	if err != nil {
		return nil, err
	}

	var dropped []DroppedLine
	candidates := make([]Line, 0, len(inputs))
	for _, in := range inputs {
		key := NewLineKey(in.ProductID, in.Size, in.Color)
		if in.Quantity < 1 {
			dropped = append(dropped, dropFor(key, in.Quantity, DropInvalidQuantity))
			continue
		}
		if idx := findLine(candidates, key); idx >= 0 {
			candidates[idx].Quantity = addQuantity(candidates[idx].Quantity, in.Quantity)
			continue
		}
		line := Line{ProductID: key.ProductID, Size: key.Size, Color: key.Color, Quantity: in.Quantity}
		if idx := findLine(current, key); idx >= 0 {
			line.Name = current[idx].Name
			line.Image = current[idx].Image
			line.UnitPriceCents = current[idx].UnitPriceCents
			line.AddedAt = current[idx].AddedAt
		}
		candidates = append(candidates, line)
	}

	kept, rejected, err := s.revalidate(ctx, candidates)
	if err != nil {
		return nil, err
	}
	dropped = append(dropped, rejected...)
	if err := s.save(ctx, auth, store, label, "replace", kept); err != nil {
		return nil, err
	}
	return s.view(kept, dropped), nil
}

// Merge folds the guest cart into the user's durable cart. Quantities of matching
// lines are summed and clamped to stock; lines no longer sellable are dropped.
// The guest cart is cleared once the durable cart is saved.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, guestToken string) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	guestAuth := AuthState{GuestToken: strings.TrimSpace(guestToken)}
	userAuth := AuthState{UserID: userID}

	guestLines, _, _, err := s.load(ctx, guestAuth)
	if err != nil {
		return nil, err
	}
	durableLines, _, _, err := s.load(ctx, userAuth)
	if err != nil {
		return nil, err
	}
	if len(guestLines) == 0 {
		if err := s.refreshMaxQuantities(ctx, durableLines); err != nil {
			return nil, err
		}
		return s.view(durableLines, nil), nil
	}

	merged := append([]Line(nil), durableLines...)
	for _, g := range guestLines {
		if idx := findLine(merged, g.Key()); idx >= 0 {
			merged[idx].Quantity = addQuantity(merged[idx].Quantity, g.Quantity)
			continue
		}
		merged = append(merged, g)
	}

	kept, dropped, err := s.revalidate(ctx, merged)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, userAuth, s.durable, storeLabelDurable, "merge", kept); err != nil {
		return nil, err
	}
	if err := s.guest.Clear(ctx, guestAuth); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.merge_guest_clear_failed")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"user_id":      userID.String(),
		"guest_lines":  len(guestLines),
		"merged_lines": len(kept),
		"dropped":      len(dropped),
	})
	s.logg.Info(logCtx, "cart.merged")
	return s.view(kept, dropped), nil
}

// ClearForUser empties the durable cart inside the caller's transaction.
func (s *service) ClearForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	if err := s.durable.ClearInTx(ctx, tx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// revalidate checks every line against current products. Lines with no price
// snapshot take the current price. Quantities are clamped to stock.
func (s *service) revalidate(ctx context.Context, lines []Line) ([]Line, []DroppedLine, error) {
	catalog, err := s.loadProducts(ctx, lines)
	if err != nil {
		return nil, nil, err
	}
	now := s.now().UTC()
	kept := make([]Line, 0, len(lines))
	var dropped []DroppedLine
	for _, line := range lines {
		key := line.Key()
		product, ok := catalog[key.ProductID]
		if !ok || !product.IsActive {
			dropped = append(dropped, dropFor(key, line.Quantity, DropProductUnavailable))
			continue
		}
		if reason := variantProblem(product, key); reason != "" {
			dropped = append(dropped, dropFor(key, line.Quantity, reason))
			continue
		}
		stock := inventory.VariantStock(product, key.Size)
		if stock <= 0 {
			dropped = append(dropped, dropFor(key, line.Quantity, DropOutOfStock))
			continue
		}
		if line.Name == "" {
			line.Name = product.Name
			line.Image = product.Image
			line.UnitPriceCents = product.PriceCents
		}
		if line.AddedAt.IsZero() {
			line.AddedAt = now
		}
		line.Quantity = min(line.Quantity, stock)
		line.MaxQuantity = stock
		kept = append(kept, line)
	}
	return kept, dropped, nil
}

func (s *service) refreshMaxQuantities(ctx context.Context, lines []Line) error {
	if len(lines) == 0 {
		return nil
	}
	catalog, err := s.loadProducts(ctx, lines)
	if err != nil {
		return err
	}
	for i := range lines {
		product, ok := catalog[lines[i].ProductID]
		if !ok || !product.IsActive {
			lines[i].MaxQuantity = 0
			continue
		}
		lines[i].MaxQuantity = inventory.VariantStock(product, lines[i].Size)
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
	}
	return product, nil
}

func (s *service) loadProducts(ctx context.Context, lines []Line) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return catalog, nil
}

func (s *service) view(lines []Line, dropped []DroppedLine) *View {
	if lines == nil {
		lines = []Line{}
	}
	priced := pricingLines(lines)
	return &View{
		Lines:   lines,
		Totals:  s.policy.ComputeTotals(priced),
		Quote:   s.policy.Quote(priced),
		Dropped: dropped,
	}
}

// CheckVariant returns a VALIDATION error when size or color does not name a
// variant of product.
func CheckVariant(product *models.Product, size, color string) error {
	key := NewLineKey(product.ID, size, color)
	if reason := variantProblem(product, key); reason != "" {
		return variantError(product, key, reason)
	}
	return nil
}

// variantProblem returns a drop reason when the key does not name a valid variant.
func variantProblem(product *models.Product, key LineKey) string {
	if product.HasSizes() {
		if key.Size == "" {
			return DropSizeRequired
		}
		if _, ok := product.FindSize(key.Size); !ok {
			return DropInvalidSize
		}
	} else if key.Size != "" {
		return DropInvalidSize
	}
	if key.Color != "" && !product.HasColor(key.Color) {
		return DropInvalidColor
	}
	return ""
}

func variantError(product *models.Product, key LineKey, reason string) error {
	var msg string
	switch reason {
	case DropSizeRequired:
		msg = fmt.Sprintf("size is required for %s", product.Name)
	case DropInvalidSize:
		msg = fmt.Sprintf("size %q is not available for %s", key.Size, product.Name)
	default:
		msg = fmt.Sprintf("color %q is not available for %s", key.Color, product.Name)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{
		"product_id": key.ProductID,
		"reason":     reason,
	})
}

// addQuantity sums two non-negative quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func outOfStockError(product *models.Product, key LineKey, requested, available int) error {
	msg := fmt.Sprintf("%s is out of stock", product.Name)
	if key.Size != "" {
		msg = fmt.Sprintf("%s (size %s) is out of stock", product.Name, key.Size)
	}
	return pkgerrors.New(pkgerrors.CodeOutOfStock, msg).WithDetails(inventory.OutOfStockDetails{
		ProductID:   product.ID,
		ProductName: product.Name,
		Size:        key.Size,
		Requested:   requested,
		Available:   max(available, 0),
	})
}

func dropFor(key LineKey, qty int, reason string) DroppedLine {
	return DroppedLine{ProductID: key.ProductID, Size: key.Size, Color: key.Color, Quantity: qty, Reason: reason}
}
