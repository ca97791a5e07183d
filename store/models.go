package store

import (
	"time"

	"github.com/uptrace/bun"
)

// ProductSource records how a product row came to exist; rows created by
// the sub-agent extraction are tagged so they can be audited separately
// from manual entry.
type ProductSource string

const (
	SourceManual       ProductSource = "manual"
	SourceImport       ProductSource = "import"
	SourceAIExtraction ProductSource = "ai_extraction"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk"`
	Email     string    `bun:"email,notnull"`
	FirstName string    `bun:"first_name"`
	LastName  string    `bun:"last_name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type StoreSettings struct {
	bun.BaseModel `bun:"table:store_settings,alias:ss"`

	ID        int64  `bun:"id,pk,autoincrement"`
	UserID    string `bun:"user_id,notnull,unique"`
	StoreName string `bun:"store_name"`
	Niche     string `bun:"niche"`
	Location  string `bun:"location"`
	Currency  string `bun:"currency,default:'NGN'"`
	Slug      string `bun:"slug"`

	PrimaryColor string `bun:"primary_color"`
	AccentColor  string `bun:"accent_color"`
	HeadingFont  string `bun:"heading_font"`
	BodyFont     string `bun:"body_font"`
	HeroTitle    string `bun:"hero_title"`
	HeroSubtitle string `bun:"hero_subtitle"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID            int64         `bun:"id,pk,autoincrement"`
	UserID        string        `bun:"user_id,notnull"`
	Name          string        `bun:"name,notnull"`
	Description   string        `bun:"description"`
	Price         float64       `bun:"price,notnull"`
	StockQuantity int           `bun:"stock_quantity,notnull,default:0"`
	SKU           string        `bun:"sku,notnull"`
	Source        ProductSource `bun:"source,notnull,default:'manual'"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull"`
	Name          string    `bun:"name,notnull"`
	Email         string    `bun:"email"`
	LifetimeValue float64   `bun:"lifetime_value,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID           int64       `bun:"id,pk,autoincrement"`
	UserID       string      `bun:"user_id,notnull"`
	OrderNumber  string      `bun:"order_number,notnull"`
	CustomerName string      `bun:"customer_name"`
	Status       OrderStatus `bun:"status,notnull,default:'pending'"`
	Total        float64     `bun:"total,notnull,default:0"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type InventoryLog struct {
	bun.BaseModel `bun:"table:inventory_logs,alias:il"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	ProductID int64     `bun:"product_id,notnull"`
	Change    int       `bun:"change,notnull"`
	Reason    string    `bun:"reason"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
