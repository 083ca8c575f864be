package domain

import (
	"context"

	"github.com/smallbiznis/storepulse/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository reads the pre-aggregated reporting tables.
type Repository interface {
	ListStores(ctx context.Context, db *gorm.DB) ([]Store, error)
	ListOrderStats(ctx context.Context, db *gorm.DB) ([]OrderStat, error)
	ListOrderStatsBySeqs(ctx context.Context, db *gorm.DB, seqs []string) ([]OrderStat, error)
	ListDailyStats(ctx context.Context, db *gorm.DB, rng DateRange) ([]DailyStat, error)
	ListStoreDailyOrders(ctx context.Context, db *gorm.DB, rng DateRange, page pagination.Pagination) ([]StoreDailyOrder, string, error)
	StoreDailyOrderPages(db *gorm.DB, rng DateRange, pageSize int) DailyOrderPager
}

// DailyOrderPager walks store_daily_orders one page at a time until the
// source reports no continuation token. It is not restartable.
type DailyOrderPager interface {
	HasNext() bool
	Next(ctx context.Context) ([]StoreDailyOrder, error)
}
