package domain

import (
	"context"
	"errors"
)

type FunnelRequest struct {
	Start string
	End   string
}

type HeatmapRequest struct {
	Start string
	End   string
}

type Service interface {
	GetFunnel(context.Context, FunnelRequest) (FunnelReport, error)
	GetHeatmap(context.Context, HeatmapRequest) (HeatmapReport, error)
}

var (
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrDateRangeRequired = errors.New("invalid_date_range_required")
	ErrInvalidDate       = errors.New("invalid_date")
	ErrDateRangeTooLarge = errors.New("invalid_date_range_too_large")
)
