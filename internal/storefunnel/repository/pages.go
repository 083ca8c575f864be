package repository

import (
	"context"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"github.com/smallbiznis/storepulse/pkg/db/pagination"
	"gorm.io/gorm"
)

type dailyOrderPages struct {
	repo     *repo
	db       *gorm.DB
	rng      domain.DateRange
	pageSize int

	token string
	done  bool
}

func (p *dailyOrderPages) HasNext() bool {
	return !p.done
}

func (p *dailyOrderPages) Next(ctx context.Context) ([]domain.StoreDailyOrder, error) {
	if p.done {
		return nil, nil
	}

	rows, next, err := p.repo.ListStoreDailyOrders(ctx, p.db, p.rng, pagination.Pagination{
		PageToken: p.token,
		PageSize:  p.pageSize,
	})
	if err != nil {
		p.done = true
		return nil, err
	}

	p.token = next
	if next == "" {
		p.done = true
	}
	return rows, nil
}
