package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// ProductFilter narrows ListProducts. Filters compose conjunctively.
type ProductFilter struct {
	Limit  int    // 0 means the default of 50
	Search string // case-insensitive substring on name or sku
	Status string // "low" (0 < stock < 10) or "out" (stock == 0)
}

const DefaultListLimit = 50

// ProductPatch is a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *float64
	StockQuantity *int
}

// BrandingPatch is a partial store_settings update; nil fields are left
// untouched (update, not replace).
type BrandingPatch struct {
	PrimaryColor *string
	AccentColor  *string
	HeadingFont  *string
	BodyFont     *string
	HeroTitle    *string
	HeroSubtitle *string
}

// Empty reports whether the patch would write nothing.
func (p BrandingPatch) Empty() bool {
	return p.PrimaryColor == nil && p.AccentColor == nil &&
		p.HeadingFont == nil && p.BodyFont == nil &&
		p.HeroTitle == nil && p.HeroSubtitle == nil
}

// Store is the persistence contract consumed by the agent. Every method is
// scoped by the owning userID; implementations must never let one tenant's
// query touch another tenant's rows.
type Store interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	GetSettings(ctx context.Context, userID string) (*StoreSettings, error)
	UpsertSettings(ctx context.Context, s *StoreSettings) error
	ApplyBranding(ctx context.Context, userID string, patch BrandingPatch) (*StoreSettings, error)

	OrderStats(ctx context.Context, userID string) (count int, revenue float64, err error)
	CountPendingOrders(ctx context.Context, userID string) (int, error)
	FindOrder(ctx context.Context, userID, orderNumber string) (*Order, error)
	SetOrderStatus(ctx context.Context, userID string, orderID int64, status OrderStatus) error

	CountProducts(ctx context.Context, userID string) (int, error)
	LowStockProducts(ctx context.Context, userID string, threshold, limit int) ([]Product, error)
	ListProducts(ctx context.Context, userID string, f ProductFilter) ([]Product, error)
	FindProduct(ctx context.Context, userID, identifier string) (*Product, error)
	InsertProduct(ctx context.Context, p *Product) error
	InsertProducts(ctx context.Context, ps []*Product) error
	UpdateProduct(ctx context.Context, userID string, productID int64, patch ProductPatch) error
	DeleteProduct(ctx context.Context, userID string, productID int64) error

	CountCustomers(ctx context.Context, userID string) (int, error)
	TopCustomers(ctx context.Context, userID string, limit int) ([]Customer, error)

	InsertInventoryLog(ctx context.Context, l *InventoryLog) error
}
