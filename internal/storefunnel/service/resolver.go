package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"gorm.io/gorm"
)

// ResolveActiveStores determines which stores ordered and what counts to
// attribute to them.
//
// Without a range every order_stats row is active and carries its lifetime
// counts. With a range the active set is the union of daily_stats.store_seqs
// inside it and the order total is the sum of those days, but per-store
// figures and the customer total still come from lifetime order_stats rows.
func ResolveActiveStores(ctx context.Context, repo domain.Repository, db *gorm.DB, rng *domain.DateRange) (domain.ActiveStores, error) {
	if rng == nil {
		return resolveAllTime(ctx, repo, db)
	}
	return resolveInRange(ctx, repo, db, *rng)
}

func resolveAllTime(ctx context.Context, repo domain.Repository, db *gorm.DB) (domain.ActiveStores, error) {
	stats, err := repo.ListOrderStats(ctx, db)
	if err != nil {
		return domain.ActiveStores{}, fmt.Errorf("load order stats: %w", err)
	}

	active := newActiveStores()
	for _, stat := range stats {
		if stat.Seq == "" {
			continue
		}
		active.Seqs.Add(stat.Seq)
		active.StatsBySeq[stat.Seq] = domain.OrderCounts{
			OrderCount:    stat.OrderCount,
			CustomerCount: stat.CustomerCount,
		}
		active.TotalOrderCount += stat.OrderCount
		active.TotalCustomerCount += stat.CustomerCount
	}
	return active, nil
}

func resolveInRange(ctx context.Context, repo domain.Repository, db *gorm.DB, rng domain.DateRange) (domain.ActiveStores, error) {
	rng = domain.NewDateRange(rng.Start, rng.End)

	days, err := repo.ListDailyStats(ctx, db, rng)
	if err != nil {
		return domain.ActiveStores{}, fmt.Errorf("load daily stats: %w", err)
	}

	active := newActiveStores()
	for _, day := range days {
		if !rng.Contains(day.Date) {
			continue
		}
		active.Seqs.Union(day.StoreSeqs)
		active.TotalOrderCount += day.OrderCount
	}
	if active.Seqs.Len() == 0 {
		return active, nil
	}

	stats, err := repo.ListOrderStatsBySeqs(ctx, db, active.Seqs.Sorted())
	if err != nil {
		return domain.ActiveStores{}, fmt.Errorf("load order stats: %w", err)
	}
	for _, stat := range stats {
		if !active.Seqs.Has(stat.Seq) {
			continue
		}
		active.StatsBySeq[stat.Seq] = domain.OrderCounts{
			OrderCount:    stat.OrderCount,
			CustomerCount: stat.CustomerCount,
		}
		active.TotalCustomerCount += stat.CustomerCount
	}
	return active, nil
}

func newActiveStores() domain.ActiveStores {
	return domain.ActiveStores{
		Seqs:       domain.SeqSet{},
		StatsBySeq: map[string]domain.OrderCounts{},
	}
}
