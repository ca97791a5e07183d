package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// These tests run against a real database when TEST_POSTGRES_DSN is set
// (fuzzy matching relies on ILIKE and RETURNING, which an in-memory stand-in
// would not exercise). Each test works under its own user id so runs are
// isolated and repeatable.
func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	p, err := NewPostgres(Config{
		DSN:          dsn,
		DialTimeout:  5 * time.Second,
		QueryTimeout: 10 * time.Second,
		MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*Product)(nil),
		(*Order)(nil),
		(*InventoryLog)(nil),
	} {
		if _, err := p.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return p
}

func testUserID(t *testing.T, p *Postgres) string {
	t.Helper()

	uid := "it-" + uuid.NewString()
	t.Cleanup(func() {
		ctx := context.Background()
		for _, model := range []any{
			(*Product)(nil),
			(*Order)(nil),
			(*InventoryLog)(nil),
		} {
			_, _ = p.db.NewDelete().Model(model).Where("user_id = ?", uid).Exec(ctx)
		}
	})
	return uid
}

func TestPostgresInsertProductPopulatesID(t *testing.T) {
	p := newTestPostgres(t)
	uid := testUserID(t, p)
	ctx := context.Background()

	single := &Product{UserID: uid, Name: "Mug", Price: 900, SKU: "MUG-001", Source: SourceManual}
	if err := p.InsertProduct(ctx, single); err != nil {
		t.Fatalf("InsertProduct() error = %v", err)
	}
	if single.ID == 0 {
		t.Error("InsertProduct did not populate the id")
	}

	batch := []*Product{
		{UserID: uid, Name: "Cap", Price: 2500, SKU: "CAP-001", Source: SourceAIExtraction},
		{UserID: uid, Name: "Belt", Price: 4000, SKU: "BLT-001", Source: SourceAIExtraction},
	}
	if err := p.InsertProducts(ctx, batch); err != nil {
		t.Fatalf("InsertProducts() error = %v", err)
	}
	for i, prod := range batch {
		if prod.ID == 0 {
			t.Errorf("batch product %d has no id", i)
		}
	}
}

func TestPostgresFindProductExactSKUWins(t *testing.T) {
	p := newTestPostgres(t)
	uid := testUserID(t, p)
	ctx := context.Background()

	bySKU := &Product{UserID: uid, Name: "Desk Lamp", Price: 7000, SKU: "LAMP-1", Source: SourceManual}
	// This product's name contains the other's SKU; only exact SKU
	// precedence keeps the lookup unambiguous.
	byName := &Product{UserID: uid, Name: "LAMP-1 replacement shade", Price: 1200, SKU: "SHD-9", Source: SourceManual}
	for _, prod := range []*Product{bySKU, byName} {
		if err := p.InsertProduct(ctx, prod); err != nil {
			t.Fatalf("InsertProduct() error = %v", err)
		}
	}

	got, err := p.FindProduct(ctx, uid, "LAMP-1")
	if err != nil {
		t.Fatalf("FindProduct() error = %v", err)
	}
	if got.ID != bySKU.ID {
		t.Errorf("FindProduct resolved %q (id %d), want the exact SKU match (id %d)", got.Name, got.ID, bySKU.ID)
	}
}

func TestPostgresFindProductSubstringFallback(t *testing.T) {
	p := newTestPostgres(t)
	uid := testUserID(t, p)
	ctx := context.Background()

	first := &Product{UserID: uid, Name: "Red Cotton Shirt", Price: 5000, SKU: "SHT-1", Source: SourceManual}
	second := &Product{UserID: uid, Name: "Blue Cotton Shirt", Price: 5000, SKU: "SHT-2", Source: SourceManual}
	for _, prod := range []*Product{first, second} {
		if err := p.InsertProduct(ctx, prod); err != nil {
			t.Fatalf("InsertProduct() error = %v", err)
		}
	}

	got, err := p.FindProduct(ctx, uid, "cotton shirt")
	if err != nil {
		t.Fatalf("FindProduct() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("substring match returned id %d, want the lowest id %d", got.ID, first.ID)
	}

	if _, err := p.FindProduct(ctx, uid, "trousers"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindProduct(miss) error = %v, want ErrNotFound", err)
	}
}

func TestPostgresFindOrderExactThenSubstring(t *testing.T) {
	p := newTestPostgres(t)
	uid := testUserID(t, p)
	ctx := context.Background()

	exact := &Order{UserID: uid, OrderNumber: "44", CustomerName: "Bisi", Status: OrderPending}
	prefixed := &Order{UserID: uid, OrderNumber: "ORD-44", CustomerName: "Ada", Status: OrderPending}
	for _, o := range []*Order{exact, prefixed} {
		if _, err := p.db.NewInsert().Model(o).Exec(ctx); err != nil {
			t.Fatalf("insert order: %v", err)
		}
	}

	got, err := p.FindOrder(ctx, uid, "44")
	if err != nil {
		t.Fatalf("FindOrder() error = %v", err)
	}
	if got.OrderNumber != "44" {
		t.Errorf("FindOrder(44) = %q, want the exact match over ORD-44", got.OrderNumber)
	}

	if _, err := p.db.NewDelete().Model((*Order)(nil)).
		Where("user_id = ?", uid).Where("order_number = ?", "44").Exec(ctx); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	got, err = p.FindOrder(ctx, uid, "44")
	if err != nil {
		t.Fatalf("FindOrder() fallback error = %v", err)
	}
	if got.OrderNumber != "ORD-44" {
		t.Errorf("FindOrder(44) fallback = %q, want ORD-44", got.OrderNumber)
	}

	if _, err := p.FindOrder(ctx, uid, "999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindOrder(miss) error = %v, want ErrNotFound", err)
	}
}

func TestPostgresUpdateProductScopedByUser(t *testing.T) {
	p := newTestPostgres(t)
	owner := testUserID(t, p)
	other := testUserID(t, p)
	ctx := context.Background()

	prod := &Product{UserID: owner, Name: "Mug", Price: 900, SKU: "MUG-001", Source: SourceManual}
	if err := p.InsertProduct(ctx, prod); err != nil {
		t.Fatalf("InsertProduct() error = %v", err)
	}

	price := 1200.0
	err := p.UpdateProduct(ctx, other, prod.ID, ProductPatch{Price: &price})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant update error = %v, want ErrNotFound", err)
	}

	if err := p.UpdateProduct(ctx, owner, prod.ID, ProductPatch{Price: &price}); err != nil {
		t.Errorf("owner update error = %v", err)
	}
}
