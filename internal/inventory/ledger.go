package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is one stock movement against a product variant. An empty Size
// targets the product-level stock of a sizeless product.
type Reservation struct {
	ProductID   uuid.UUID
	ProductName string
	Size        string
	Quantity    int
}

// SizeInput is one row of an admin stock overwrite.
type SizeInput struct {
	Size          string
	InStock       bool
	StockQuantity int
}

// OutOfStockDetails is attached to OUT_OF_STOCK errors.
type OutOfStockDetails struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Size        string    `json:"size,omitempty"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Ledger owns every write to per-size stock and the derived product aggregate.
type Ledger struct {
	store txRunner
	now   func() time.Time
}

// NewLedger constructs a stock ledger over the shared database client.
func NewLedger(store txRunner) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Ledger{store: store, now: time.Now}, nil
}

// VariantStock returns the quantity a cart line may hold for the given size.
// Sizeless products use the product aggregate; an unknown or disabled size yields 0.
func VariantStock(product *models.Product, size string) int {
	if product == nil {
		return 0
	}
	if !product.HasSizes() {
		if product.CountInStock < 0 {
			return 0
		}
		return product.CountInStock
	}
	entry, ok := product.FindSize(size)
	if !ok || !entry.InStock || entry.StockQuantity < 0 {
		return 0
	}
	return entry.StockQuantity
}

// CheckAvailability reports whether qty units can currently be sold. With an empty
// size on a sized product it reports whether any size is in stock.
func (l *Ledger) CheckAvailability(ctx context.Context, productID uuid.UUID, size string, qty int) (bool, error) {
	if qty < 1 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	var product models.Product
	err := l.store.DB().WithContext(ctx).
		Preload("Sizes").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if repo.IsNotFound(err) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", productID))
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
	}
	if !product.IsActive {
		return false, nil
	}

	size = strings.TrimSpace(size)
	switch {
	case !product.HasSizes():
		return product.CountInStock >= qty, nil
	case size == "":
		for _, entry := range product.Sizes {
			if entry.InStock && entry.StockQuantity > 0 {
				return true, nil
			}
		}
		return false, nil
	default:
		return VariantStock(&product, size) >= qty, nil
	}
}

// Reserve decrements stock for every line inside tx. Each line is a single
// conditional update; a line matching no row fails the whole batch with
// OUT_OF_STOCK and the caller's transaction rolls everything back.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, lines []Reservation) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	merged, err := normalize(lines)
	if err != nil {
		return err
	}
	now := l.now().UTC()
	touched := map[uuid.UUID]struct{}{}
	for _, line := range merged {
		var res *gorm.DB
		if line.Size == "" {
			res = tx.WithContext(ctx).Exec(
				`UPDATE products SET count_in_stock = count_in_stock - ?, updated_at = ?
				 WHERE id = ? AND is_active = ? AND count_in_stock >= ?
				 AND NOT EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = products.id)`,
				line.Quantity, now, line.ProductID, true, line.Quantity,
			)
		} else {
			res = tx.WithContext(ctx).Exec(
				`UPDATE product_sizes SET stock_quantity = stock_quantity - ?, in_stock = (stock_quantity - ? > 0), updated_at = ?
				 WHERE product_id = ? AND size = ? AND in_stock = ? AND stock_quantity >= ?`,
				line.Quantity, line.Quantity, now, line.ProductID, line.Size, true, line.Quantity,
			)
			touched[line.ProductID] = struct{}{}
		}
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
		}
		if res.RowsAffected == 0 {
			return l.outOfStock(ctx, tx, line)
		}
	}
	return l.recomputeAggregates(ctx, tx, touched, now)
}

// Release returns stock for every line inside tx. It is the inverse of Reserve
// and is used when an order is cancelled.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, lines []Reservation) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	merged, err := normalize(lines)
	if err != nil {
		return err
	}
	now := l.now().UTC()
	touched := map[uuid.UUID]struct{}{}
	for _, line := range merged {
		var res *gorm.DB
		if line.Size == "" {
			res = tx.WithContext(ctx).Exec(
				`UPDATE products SET count_in_stock = count_in_stock + ?, updated_at = ? WHERE id = ?`,
				line.Quantity, now, line.ProductID,
			)
		} else {
			res = tx.WithContext(ctx).Exec(
				`UPDATE product_sizes SET stock_quantity = stock_quantity + ?, in_stock = ?, updated_at = ?
				 WHERE product_id = ? AND size = ?`,
				line.Quantity, true, now, line.ProductID, line.Size,
			)
			touched[line.ProductID] = struct{}{}
		}
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release stock")
		}
		// A deleted product or size leaves nothing to restock.
	}
	return l.recomputeAggregates(ctx, tx, touched, now)
}

// ReplaceSizes overwrites the size set of a product and recomputes its aggregate.
// in_stock can be forced off for a stocked size but never on for an empty one.
func (l *Ledger) ReplaceSizes(ctx context.Context, productID uuid.UUID, sizes []SizeInput) (*models.Product, error) {
	seen := map[string]struct{}{}
	for _, s := range sizes {
		name := strings.TrimSpace(s.Size)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size name is required")
		}
		if s.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %s: stock quantity cannot be negative", name))
		}
		if _, dup := seen[name]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %s listed twice", name))
		}
		seen[name] = struct{}{}
	}

	now := l.now().UTC()
	var product models.Product
	err := l.store.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear sizes")
		}
		rows := make([]models.ProductSize, 0, len(sizes))
		total := 0
		for i, s := range sizes {
			rows = append(rows, models.ProductSize{
				ID:            uuid.New(),
				ProductID:     productID,
				Size:          strings.TrimSpace(s.Size),
				Position:      i,
				InStock:       s.InStock && s.StockQuantity > 0,
				StockQuantity: s.StockQuantity,
				UpdatedAt:     now,
			})
			total += s.StockQuantity
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert sizes")
			}
		}
		return tx.Model(&models.Product{}).Where("id = ?", productID).
			Updates(map[string]any{"count_in_stock": total, "updated_at": now}).Error
	})
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", productID))
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace sizes")
	}

	if err := l.store.DB().WithContext(ctx).
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "id = ?", productID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return &product, nil
}

func (l *Ledger) recomputeAggregates(ctx context.Context, tx *gorm.DB, productIDs map[uuid.UUID]struct{}, now time.Time) error {
	ids := make([]uuid.UUID, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		err := tx.WithContext(ctx).Exec(
			`UPDATE products SET count_in_stock = (SELECT COALESCE(SUM(ps.stock_quantity), 0) FROM product_sizes ps WHERE ps.product_id = ?), updated_at = ?
			 WHERE id = ?`,
			id, now, id,
		).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute stock aggregate")
		}
	}
	return nil
}

func (l *Ledger) outOfStock(ctx context.Context, tx *gorm.DB, line Reservation) error {
	available := 0
	var product models.Product
	if err := tx.WithContext(ctx).Preload("Sizes").First(&product, "id = ?", line.ProductID).Error; err == nil {
		available = VariantStock(&product, line.Size)
		if line.ProductName == "" {
			line.ProductName = product.Name
		}
	}
	name := line.ProductName
	if name == "" {
		name = line.ProductID.String()
	}
	msg := fmt.Sprintf("%s is out of stock", name)
	if line.Size != "" {
		msg = fmt.Sprintf("%s (size %s) is out of stock", name, line.Size)
	}
	return pkgerrors.New(pkgerrors.CodeOutOfStock, msg).WithDetails(OutOfStockDetails{
		ProductID:   line.ProductID,
		ProductName: name,
		Size:        line.Size,
		Requested:   line.Quantity,
		Available:   available,
	})
}

// normalize sums duplicate variants, saturating at math.MaxInt, and orders lines by (product_id, size) so
// concurrent reservations lock rows in the same order.
func normalize(lines []Reservation) ([]Reservation, error) {
	type key struct {
		productID uuid.UUID
		size      string
	}
	byKey := map[key]int{}
	merged := make([]Reservation, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s: quantity must be at least 1", line.ProductID))
		}
		line.Size = strings.TrimSpace(line.Size)
		k := key{line.ProductID, line.Size}
		if idx, ok := byKey[k]; ok {
			merged[idx].Quantity = min(merged[idx].Quantity, math.MaxInt-line.Quantity) + line.Quantity
			continue
		}
		byKey[k] = len(merged)
		merged = append(merged, line)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.ProductID != b.ProductID {
			return a.ProductID.String() < b.ProductID.String()
		}
		return a.Size < b.Size
	})
	return merged, nil
}
