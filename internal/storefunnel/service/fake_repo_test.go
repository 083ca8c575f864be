package service

import (
	"context"
	"sort"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"github.com/smallbiznis/storepulse/pkg/db/pagination"
	"gorm.io/gorm"
)

type fakeRepo struct {
	stores     []domain.Store
	orderStats []domain.OrderStat
	dailyStats []domain.DailyStat
	daily      []domain.StoreDailyOrder

	storesErr  error
	statsErr   error
	dailyErr   error
	ordersErr  error
	pageSize   int
	pagesRead  int
	bySeqCalls [][]string
}

func (f *fakeRepo) ListStores(ctx context.Context, db *gorm.DB) ([]domain.Store, error) {
	if f.storesErr != nil {
		return nil, f.storesErr
	}
	return f.stores, nil
}

func (f *fakeRepo) ListOrderStats(ctx context.Context, db *gorm.DB) ([]domain.OrderStat, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.orderStats, nil
}

func (f *fakeRepo) ListOrderStatsBySeqs(ctx context.Context, db *gorm.DB, seqs []string) ([]domain.OrderStat, error) {
	f.bySeqCalls = append(f.bySeqCalls, seqs)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	wanted := domain.NewSeqSet(seqs...)
	out := []domain.OrderStat{}
	for _, stat := range f.orderStats {
		if wanted.Has(stat.Seq) {
			out = append(out, stat)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDailyStats(ctx context.Context, db *gorm.DB, rng domain.DateRange) ([]domain.DailyStat, error) {
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	out := []domain.DailyStat{}
	for _, day := range f.dailyStats {
		if rng.Contains(day.Date) {
			out = append(out, day)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListStoreDailyOrders(ctx context.Context, db *gorm.DB, rng domain.DateRange, page pagination.Pagination) ([]domain.StoreDailyOrder, string, error) {
	if f.ordersErr != nil {
		return nil, "", f.ordersErr
	}

	rows := []domain.StoreDailyOrder{}
	for _, row := range f.daily {
		if rng.Contains(row.OrderDate) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Seq == rows[j].Seq {
			return rows[i].OrderDate < rows[j].OrderDate
		}
		return rows[i].Seq < rows[j].Seq
	})

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, "", err
		}
		idx := sort.Search(len(rows), func(i int) bool {
			r := rows[i]
			return r.Seq > cursor.Seq || (r.Seq == cursor.Seq && r.OrderDate > cursor.OrderDate)
		})
		rows = rows[idx:]
	}

	size := page.Size()
	if len(rows) <= size {
		return rows, "", nil
	}
	rows = rows[:size]
	last := rows[len(rows)-1]
	next, err := pagination.EncodeCursor(pagination.Cursor{Seq: last.Seq, OrderDate: last.OrderDate})
	return rows, next, err
}

func (f *fakeRepo) StoreDailyOrderPages(db *gorm.DB, rng domain.DateRange, pageSize int) domain.DailyOrderPager {
	f.pageSize = pageSize
	return &fakePager{repo: f, rng: rng, size: pageSize}
}

type fakePager struct {
	repo  *fakeRepo
	rng   domain.DateRange
	size  int
	token string
	done  bool
}

func (p *fakePager) HasNext() bool { return !p.done }

func (p *fakePager) Next(ctx context.Context) ([]domain.StoreDailyOrder, error) {
	rows, next, err := p.repo.ListStoreDailyOrders(ctx, nil, p.rng, pagination.Pagination{PageToken: p.token, PageSize: p.size})
	if err != nil {
		p.done = true
		return nil, err
	}
	p.repo.pagesRead++
	p.token = next
	p.done = next == ""
	return rows, nil
}

func strPtr(v string) *string { return &v }
