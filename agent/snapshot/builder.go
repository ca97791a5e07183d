// Package snapshot assembles the per-request business context the agent is
// grounded on. Assembly is fail-soft: a read error downgrades the snapshot
// instead of failing the request, so the agent can still answer from
// general knowledge.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

const (
	lowStockThreshold = 10
	lowStockLimit     = 5
	topCustomerLimit  = 5
)

type Builder struct {
	store storex.Store
	now   func() time.Time
}

func NewBuilder(s storex.Store) *Builder {
	return &Builder{
		store: s,
		now:   time.Now,
	}
}

// Build queries the store sections concurrently and joins before returning;
// the snapshot is immutable afterwards. It never returns an error: failed
// sections are zeroed and the snapshot is marked Degraded.
func (b *Builder) Build(ctx context.Context, userID string) *contractx.Snapshot {
	snap := &contractx.Snapshot{
		GeneratedAt: b.now().UTC(),
	}

	tasks := []struct {
		name string
		run  func() error
	}{
		{"profile", func() error {
			u, err := b.store.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			snap.UserFirstName = u.FirstName
			return nil
		}},
		{"settings", func() error {
			ss, err := b.store.GetSettings(ctx, userID)
			if err != nil {
				return err
			}
			snap.StoreName = ss.StoreName
			snap.Niche = ss.Niche
			snap.Location = ss.Location
			return nil
		}},
		{"orders", func() error {
			count, revenue, err := b.store.OrderStats(ctx, userID)
			if err != nil {
				return err
			}
			snap.TotalOrders = count
			snap.Revenue = revenue
			return nil
		}},
		{"pending_orders", func() error {
			n, err := b.store.CountPendingOrders(ctx, userID)
			if err != nil {
				return err
			}
			snap.PendingOrders = n
			return nil
		}},
		{"products", func() error {
			n, err := b.store.CountProducts(ctx, userID)
			if err != nil {
				return err
			}
			snap.TotalProducts = n
			return nil
		}},
		{"low_stock", func() error {
			ps, err := b.store.LowStockProducts(ctx, userID, lowStockThreshold, lowStockLimit)
			if err != nil {
				return err
			}
			for _, p := range ps {
				snap.LowStockProducts = append(snap.LowStockProducts, contractx.LowStockProduct{
					Name:          p.Name,
					StockQuantity: p.StockQuantity,
				})
			}
			return nil
		}},
		{"customers", func() error {
			n, err := b.store.CountCustomers(ctx, userID)
			if err != nil {
				return err
			}
			snap.TotalCustomers = n
			return nil
		}},
		{"top_customers", func() error {
			cs, err := b.store.TopCustomers(ctx, userID, topCustomerLimit)
			if err != nil {
				return err
			}
			for _, c := range cs {
				snap.TopCustomers = append(snap.TopCustomers, contractx.TopCustomer{
					Name:          c.Name,
					LifetimeValue: c.LifetimeValue,
				})
			}
			return nil
		}},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, task := range tasks {
		wg.Add(1)
		go func(name string, run func() error) {
			defer wg.Done()
			if err := run(); err != nil {
				log.Warn().Err(err).Str("section", name).Str("user_id", userID).
					Msg("snapshot section unavailable")
				mu.Lock()
				snap.Degraded = true
				mu.Unlock()
			}
		}(task.name, task.run)
	}
	wg.Wait()

	return snap
}
