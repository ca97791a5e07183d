package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"5s"`
	QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"10s"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
}

// Postgres implements Store on top of bun + pgdriver.
type Postgres struct {
	db *bun.DB
}

var _ Store = (*Postgres)(nil)

func NewPostgres(cfg Config) (*Postgres, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithDialTimeout(cfg.DialTimeout),
		pgdriver.WithReadTimeout(cfg.QueryTimeout),
		pgdriver.WithWriteTimeout(cfg.QueryTimeout),
	)
	sqldb := sql.OpenDB(connector)
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Postgres{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// NewPostgresFromDB wraps an existing bun.DB (used by tests and tooling).
func NewPostgresFromDB(db *bun.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) GetUser(ctx context.Context, userID string) (*User, error) {
	u := new(User)
	err := s.db.NewSelect().Model(u).Where("u.id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err, "user %s", userID)
	}
	return u, nil
}

func (s *Postgres) GetSettings(ctx context.Context, userID string) (*StoreSettings, error) {
	ss := new(StoreSettings)
	err := s.db.NewSelect().Model(ss).Where("ss.user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err, "settings for user %s", userID)
	}
	return ss, nil
}

func (s *Postgres) UpsertSettings(ctx context.Context, settings *StoreSettings) error {
	if settings == nil || strings.TrimSpace(settings.UserID) == "" {
		return errors.New("settings user id is required")
	}
	settings.UpdatedAt = time.Now().UTC()

	_, err := s.db.NewInsert().
		Model(settings).
		On("CONFLICT (user_id) DO UPDATE").
		Set("store_name = EXCLUDED.store_name").
		Set("niche = EXCLUDED.niche").
		Set("slug = EXCLUDED.slug").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Postgres) ApplyBranding(ctx context.Context, userID string, patch BrandingPatch) (*StoreSettings, error) {
	if patch.Empty() {
		return s.GetSettings(ctx, userID)
	}

	q := s.db.NewUpdate().
		Model((*StoreSettings)(nil)).
		Where("user_id = ?", userID).
		Set("updated_at = ?", time.Now().UTC())

	if patch.PrimaryColor != nil {
		q = q.Set("primary_color = ?", *patch.PrimaryColor)
	}
	if patch.AccentColor != nil {
		q = q.Set("accent_color = ?", *patch.AccentColor)
	}
	if patch.HeadingFont != nil {
		q = q.Set("heading_font = ?", *patch.HeadingFont)
	}
	if patch.BodyFont != nil {
		q = q.Set("body_font = ?", *patch.BodyFont)
	}
	if patch.HeroTitle != nil {
		q = q.Set("hero_title = ?", *patch.HeroTitle)
	}
	if patch.HeroSubtitle != nil {
		q = q.Set("hero_subtitle = ?", *patch.HeroSubtitle)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: settings for user %s", ErrNotFound, userID)
	}
	return s.GetSettings(ctx, userID)
}

func (s *Postgres) OrderStats(ctx context.Context, userID string) (int, float64, error) {
	var count int
	var revenue float64
	err := s.db.NewSelect().
		Model((*Order)(nil)).
		ColumnExpr("count(*)").
		ColumnExpr("coalesce(sum(o.total), 0)").
		Where("o.user_id = ?", userID).
		Scan(ctx, &count, &revenue)
	if err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}

func (s *Postgres) CountPendingOrders(ctx context.Context, userID string) (int, error) {
	return s.db.NewSelect().
		Model((*Order)(nil)).
		Where("o.user_id = ?", userID).
		Where("o.status = ?", OrderPending).
		Count(ctx)
}

// FindOrder matches the exact order number first, then falls back to a
// substring match so "44" still resolves "ORD-44".
func (s *Postgres) FindOrder(ctx context.Context, userID, orderNumber string) (*Order, error) {
	o := new(Order)
	err := s.db.NewSelect().
		Model(o).
		Where("o.user_id = ?", userID).
		Where("o.order_number = ?", orderNumber).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	o = new(Order)
	err = s.db.NewSelect().
		Model(o).
		Where("o.user_id = ?", userID).
		Where("o.order_number LIKE ?", "%"+orderNumber+"%").
		Order("o.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err, "order %s", orderNumber)
	}
	return o, nil
}

func (s *Postgres) SetOrderStatus(ctx context.Context, userID string, orderID int64, status OrderStatus) error {
	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Where("user_id = ?", userID).
		Where("id = ?", orderID).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: order id %d", ErrNotFound, orderID)
	}
	return nil
}

func (s *Postgres) CountProducts(ctx context.Context, userID string) (int, error) {
	return s.db.NewSelect().
		Model((*Product)(nil)).
		Where("p.user_id = ?", userID).
		Count(ctx)
}

func (s *Postgres) LowStockProducts(ctx context.Context, userID string, threshold, limit int) ([]Product, error) {
	var ps []Product
	err := s.db.NewSelect().
		Model(&ps).
		Where("p.user_id = ?", userID).
		Where("p.stock_quantity < ?", threshold).
		Order("p.stock_quantity ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *Postgres) ListProducts(ctx context.Context, userID string, f ProductFilter) ([]Product, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var ps []Product
	q := s.db.NewSelect().
		Model(&ps).
		Where("p.user_id = ?", userID)

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.name ILIKE ?", pattern).WhereOr("p.sku ILIKE ?", pattern)
		})
	}
	switch strings.ToLower(strings.TrimSpace(f.Status)) {
	case "low":
		q = q.Where("p.stock_quantity > 0").Where("p.stock_quantity < ?", 10)
	case "out":
		q = q.Where("p.stock_quantity = 0")
	}

	err := q.Order("p.id ASC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// FindProduct resolves a natural-language identifier: an exact SKU match
// wins, otherwise the first product whose name contains the identifier
// (case-insensitive). The substring fallback is deliberately permissive so
// "the red shirt" can resolve "Red Cotton Shirt".
func (s *Postgres) FindProduct(ctx context.Context, userID, identifier string) (*Product, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty product identifier", ErrNotFound)
	}

	p := new(Product)
	err := s.db.NewSelect().
		Model(p).
		Where("p.user_id = ?", userID).
		Where("p.sku = ?", identifier).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p = new(Product)
	err = s.db.NewSelect().
		Model(p).
		Where("p.user_id = ?", userID).
		Where("p.name ILIKE ?", "%"+identifier+"%").
		Order("p.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err, "product %q", identifier)
	}
	return p, nil
}

func (s *Postgres) InsertProduct(ctx context.Context, p *Product) error {
	_, err := s.db.NewInsert().Model(p).Exec(ctx)
	return err
}

func (s *Postgres) InsertProducts(ctx context.Context, ps []*Product) error {
	if len(ps) == 0 {
		return nil
	}
	_, err := s.db.NewInsert().Model(&ps).Exec(ctx)
	return err
}

func (s *Postgres) UpdateProduct(ctx context.Context, userID string, productID int64, patch ProductPatch) error {
	q := s.db.NewUpdate().
		Model((*Product)(nil)).
		Where("user_id = ?", userID).
		Where("id = ?", productID).
		Set("updated_at = ?", time.Now().UTC())

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	if patch.Price != nil {
		q = q.Set("price = ?", *patch.Price)
	}
	if patch.StockQuantity != nil {
		q = q.Set("stock_quantity = ?", *patch.StockQuantity)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product id %d", ErrNotFound, productID)
	}
	return nil
}

func (s *Postgres) DeleteProduct(ctx context.Context, userID string, productID int64) error {
	res, err := s.db.NewDelete().
		Model((*Product)(nil)).
		Where("user_id = ?", userID).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product id %d", ErrNotFound, productID)
	}
	return nil
}

func (s *Postgres) CountCustomers(ctx context.Context, userID string) (int, error) {
	return s.db.NewSelect().
		Model((*Customer)(nil)).
		Where("c.user_id = ?", userID).
		Count(ctx)
}

func (s *Postgres) TopCustomers(ctx context.Context, userID string, limit int) ([]Customer, error) {
	var cs []Customer
	err := s.db.NewSelect().
		Model(&cs).
		Where("c.user_id = ?", userID).
		Order("c.lifetime_value DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Postgres) InsertInventoryLog(ctx context.Context, l *InventoryLog) error {
	_, err := s.db.NewInsert().Model(l).Exec(ctx)
	return err
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
