package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/env"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

type seedUser struct {
	email     string
	firstName string
	lastName  string
	role      enums.UserRole
}

type seedProduct struct {
	name       string
	sku        string
	priceCents int
	sizes      map[string]int
	sizeOrder  []string
	colors     [][2]string
	stock      int
}

var demoUsers = []seedUser{
	{email: "admin@storefront.dev", firstName: "Ada", lastName: "Admin", role: enums.UserRoleAdmin},
	{email: "shopper@storefront.dev", firstName: "Sam", lastName: "Shopper", role: enums.UserRoleCustomer},
}

var demoProducts = []seedProduct{
	{
		name: "Classic Tee", sku: "TEE-CLASSIC", priceCents: 2000,
		sizeOrder: []string{"S", "M", "L"}, sizes: map[string]int{"S": 5, "M": 3, "L": 0},
		colors: [][2]string{{"Black", "#000000"}, {"White", "#ffffff"}},
	},
	{
		name: "Hoodie", sku: "HOODIE-ZIP", priceCents: 4500,
		sizeOrder: []string{"M", "L", "XL"}, sizes: map[string]int{"M": 2, "L": 4, "XL": 1},
		colors: [][2]string{{"Grey", "#808080"}},
	},
	{name: "Canvas Tote", sku: "TOTE-CANVAS", priceCents: 1200, stock: 25},
	{name: "Last Unit Cap", sku: "CAP-LAST", priceCents: 1500, stock: 1},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	printTokens := flag.Bool("tokens", env.GetBool("STOREFRONT_SEED_TOKENS", true), "print dev bearer tokens for the seeded users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production environment")
		os.Exit(1)
	}

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	password := env.Get("STOREFRONT_SEED_PASSWORD", "storefront-dev")
	seeded, err := seedUsers(ctx, cfg, users.NewRepository(dbClient.DB()), password)
	if err != nil {
		logg.Error(ctx, "failed to seed users", err)
		os.Exit(1)
	}

	created, err := seedProducts(ctx, dbClient.DB(), products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to seed products", err)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"users": len(seeded), "products_created": created}), "seed complete")

	if !*printTokens {
		return
	}
	for _, u := range seeded {
		token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{UserID: u.ID, Role: u.Role})
		if err != nil {
			logg.Error(ctx, "failed to mint dev token", err)
			os.Exit(1)
		}
		fmt.Printf("%s (%s)\n  Authorization: Bearer %s\n", u.Email, u.Role, token)
	}
}

func seedUsers(ctx context.Context, cfg *config.Config, repo *users.Repository, password string) ([]*models.User, error) {
	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	out := make([]*models.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		existing, err := repo.FindByEmail(ctx, u.email)
		if err == nil {
			if security.NeedsRehash(existing.PasswordHash, cfg.Password) {
				if err := repo.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
					return nil, fmt.Errorf("rehash %s: %w", u.email, err)
				}
			}
			out = append(out, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user, err := repo.Create(ctx, &models.User{
			Email:        u.email,
			PasswordHash: hash,
			FirstName:    u.firstName,
			LastName:     u.lastName,
			Role:         u.role,
			IsActive:     true,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", u.email, err)
		}
		out = append(out, user)
	}
	return out, nil
}

func seedProducts(ctx context.Context, conn *gorm.DB, repo *products.Repository) (int, error) {
	created := 0
	for _, p := range demoProducts {
		var count int64
		if err := conn.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", p.sku).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if _, err := repo.Create(ctx, p.model()); err != nil {
			return created, fmt.Errorf("create %s: %w", p.sku, err)
		}
		created++
	}
	return created, nil
}

func (p seedProduct) model() *models.Product {
	product := &models.Product{
		Name:         p.name,
		SKU:          p.sku,
		PriceCents:   p.priceCents,
		CountInStock: p.stock,
		IsActive:     true,
	}
	if len(p.sizeOrder) > 0 {
		product.CountInStock = 0
		for _, name := range p.sizeOrder {
			qty := p.sizes[name]
			product.CountInStock += qty
			product.Sizes = append(product.Sizes, models.ProductSize{Size: name, StockQuantity: qty, InStock: qty > 0})
		}
	}
	for _, c := range p.colors {
		product.Colors = append(product.Colors, models.ProductColor{ColorName: c[0], ColorValue: c[1]})
	}
	return product
}
