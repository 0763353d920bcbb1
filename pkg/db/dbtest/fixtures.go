package dbtest

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SizeStock describes one size row for a fixture product.
type SizeStock struct {
	Size     string
	Quantity int
}

// ProductFixture describes a product to insert. Sizes empty means a sizeless
// product stocked through Stock.
type ProductFixture struct {
	Name       string
	PriceCents int
	Sizes      []SizeStock
	Colors     []string
	Stock      int
	Inactive   bool
}

// CreateUser inserts a customer and returns it.
func CreateUser(t testing.TB, db *gorm.DB) models.User {
	t.Helper()
	id := uuid.New()
	user := models.User{
		ID:           id,
		Email:        id.String() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateProduct inserts a product with its sizes and colors. count_in_stock is
// derived from the sizes for sized products.
func CreateProduct(t testing.TB, db *gorm.DB, fx ProductFixture) models.Product {
	t.Helper()
	id := uuid.New()
	name := fx.Name
	if name == "" {
		name = "Product " + id.String()[:8]
	}
	product := models.Product{
		ID:           id,
		Name:         name,
		SKU:          "SKU-" + id.String()[:8],
		PriceCents:   fx.PriceCents,
		CountInStock: fx.Stock,
		IsActive:     true,
	}
	if len(fx.Sizes) > 0 {
		product.CountInStock = 0
		for _, s := range fx.Sizes {
			product.CountInStock += s.Quantity
		}
	}
	if err := db.Omit("Sizes", "Colors").Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if fx.Inactive {
		if err := db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
		product.IsActive = false
	}

	now := time.Now().UTC()
	for i, s := range fx.Sizes {
		row := models.ProductSize{
			ID:            uuid.New(),
			ProductID:     id,
			Size:          s.Size,
			Position:      i,
			InStock:       s.Quantity > 0,
			StockQuantity: s.Quantity,
			UpdatedAt:     now,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create size: %v", err)
		}
		product.Sizes = append(product.Sizes, row)
	}
	for i, c := range fx.Colors {
		row := models.ProductColor{
			ID:         uuid.New(),
			ProductID:  id,
			Position:   i,
			ColorName:  c,
			ColorValue: "#000000",
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create color: %v", err)
		}
		product.Colors = append(product.Colors, row)
	}
	return product
}

// SizeQuantity reads the current stock of one size.
func SizeQuantity(t testing.TB, db *gorm.DB, productID uuid.UUID, size string) int {
	t.Helper()
	var row models.ProductSize
	if err := db.Where("product_id = ? AND size = ?", productID, size).Take(&row).Error; err != nil {
		t.Fatalf("load size: %v", err)
	}
	return row.StockQuantity
}

// CountInStock reads the aggregate stock column of a product.
func CountInStock(t testing.TB, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := db.Select("count_in_stock").Where("id = ?", productID).Take(&product).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.CountInStock
}
