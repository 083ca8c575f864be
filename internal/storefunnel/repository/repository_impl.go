package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"github.com/smallbiznis/storepulse/pkg/db/pagination"
	"gorm.io/gorm"
)

// seqChunkSize bounds the IN list of a single order_stats lookup.
const seqChunkSize = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListStores(ctx context.Context, db *gorm.DB) ([]domain.Store, error) {
	var stores []domain.Store
	err := db.WithContext(ctx).Raw(
		`SELECT store_id, store_name, seq, status, owner_id, created_at
		 FROM stores
		 ORDER BY created_at ASC, store_id ASC`,
	).Scan(&stores).Error
	if err != nil {
		return nil, err
	}

	for i := range stores {
		normalizeStore(&stores[i])
	}
	return stores, nil
}

func (r *repo) ListOrderStats(ctx context.Context, db *gorm.DB) ([]domain.OrderStat, error) {
	var stats []domain.OrderStat
	err := db.WithContext(ctx).Raw(
		`SELECT seq, COALESCE(order_count, 0) AS order_count, COALESCE(customer_count, 0) AS customer_count
		 FROM order_stats
		 ORDER BY seq ASC`,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return normalizeOrderStats(stats), nil
}

func (r *repo) ListOrderStatsBySeqs(ctx context.Context, db *gorm.DB, seqs []string) ([]domain.OrderStat, error) {
	out := make([]domain.OrderStat, 0, len(seqs))
	for start := 0; start < len(seqs); start += seqChunkSize {
		end := min(start+seqChunkSize, len(seqs))

		var chunk []domain.OrderStat
		err := db.WithContext(ctx).Raw(
			`SELECT seq, COALESCE(order_count, 0) AS order_count, COALESCE(customer_count, 0) AS customer_count
			 FROM order_stats
			 WHERE seq IN ?
			 ORDER BY seq ASC`,
			seqs[start:end],
		).Scan(&chunk).Error
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return normalizeOrderStats(out), nil
}

func (r *repo) ListDailyStats(ctx context.Context, db *gorm.DB, rng domain.DateRange) ([]domain.DailyStat, error) {
	var rows []domain.DailyStatRow
	err := db.WithContext(ctx).Raw(
		`SELECT date, COALESCE(order_count, 0) AS order_count, store_seqs
		 FROM daily_stats
		 WHERE date >= ? AND date <= ?
		 ORDER BY date ASC`,
		rng.Start,
		rng.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]domain.DailyStat, 0, len(rows))
	for _, row := range rows {
		seqs, err := domain.DecodeSeqSet(row.StoreSeqs)
		if err != nil {
			return nil, fmt.Errorf("decode store_seqs for %s: %w", row.Date, err)
		}
		stats = append(stats, domain.DailyStat{
			Date:       strings.TrimSpace(row.Date),
			OrderCount: nonNegative(row.OrderCount),
			StoreSeqs:  seqs,
		})
	}
	return stats, nil
}

// ListStoreDailyOrders returns one keyset page ordered by (seq, order_date)
// and the token for the next page, empty when the range is exhausted.
func (r *repo) ListStoreDailyOrders(ctx context.Context, db *gorm.DB, rng domain.DateRange, page pagination.Pagination) ([]domain.StoreDailyOrder, string, error) {
	size := page.Size()

	stmt := db.WithContext(ctx).
		Model(&domain.StoreDailyOrder{}).
		Select("seq, order_date, COALESCE(order_count, 0) AS order_count").
		Where("order_date >= ? AND order_date <= ?", rng.Start, rng.End)

	if token := strings.TrimSpace(page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, "", err
		}
		stmt = stmt.Where("(seq > ?) OR (seq = ? AND order_date > ?)", cursor.Seq, cursor.Seq, cursor.OrderDate)
	}

	var rows []domain.StoreDailyOrder
	err := stmt.
		Order("seq ASC, order_date ASC").
		Limit(size + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	if len(rows) <= size {
		return normalizeDailyOrders(rows), "", nil
	}

	rows = rows[:size]
	last := rows[len(rows)-1]
	next, err := pagination.EncodeCursor(pagination.Cursor{Seq: last.Seq, OrderDate: last.OrderDate})
	if err != nil {
		return nil, "", err
	}
	return normalizeDailyOrders(rows), next, nil
}

func (r *repo) StoreDailyOrderPages(db *gorm.DB, rng domain.DateRange, pageSize int) domain.DailyOrderPager {
	return &dailyOrderPages{
		repo:     r,
		db:       db,
		rng:      rng,
		pageSize: pageSize,
	}
}

func normalizeStore(store *domain.Store) {
	store.StoreID = strings.TrimSpace(store.StoreID)
	store.StoreName = strings.TrimSpace(store.StoreName)
	store.Seq = strings.TrimSpace(store.Seq)

	store.Status = strings.ToUpper(strings.TrimSpace(store.Status))
	if store.Status == "" {
		store.Status = domain.StatusUnknown
	}

	ownerID := domain.UnassignedOwnerID
	if store.OwnerID != nil {
		if trimmed := strings.TrimSpace(*store.OwnerID); trimmed != "" {
			ownerID = trimmed
		}
	}
	store.OwnerID = &ownerID
}

func normalizeOrderStats(stats []domain.OrderStat) []domain.OrderStat {
	out := stats[:0]
	for _, stat := range stats {
		stat.Seq = strings.TrimSpace(stat.Seq)
		if stat.Seq == "" {
			continue
		}
		stat.OrderCount = nonNegative(stat.OrderCount)
		stat.CustomerCount = nonNegative(stat.CustomerCount)
		out = append(out, stat)
	}
	return out
}

func normalizeDailyOrders(rows []domain.StoreDailyOrder) []domain.StoreDailyOrder {
	for i := range rows {
		rows[i].Seq = strings.TrimSpace(rows[i].Seq)
		rows[i].OrderDate = strings.TrimSpace(rows[i].OrderDate)
		rows[i].OrderCount = nonNegative(rows[i].OrderCount)
	}
	return rows
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
