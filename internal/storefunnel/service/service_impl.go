package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/storepulse/internal/config"
	"github.com/smallbiznis/storepulse/internal/observability/metrics"
	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Lifecycle *config.LifecycleConfigHolder
	Cfg       config.Config
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	lifecycle *config.LifecycleConfigHolder
	reports   config.ReportsConfig
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	lifecycle := p.Lifecycle
	if lifecycle == nil {
		lifecycle = config.NewStaticLifecycleConfigHolder(config.DefaultLifecycleConfig())
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("storefunnel.service"),
		repo:      p.Repo,
		lifecycle: lifecycle,
		reports:   p.Cfg.Reports,
		metrics:   p.Metrics,
	}
}

func (s *Service) GetFunnel(ctx context.Context, req domain.FunnelRequest) (report domain.FunnelReport, err error) {
	start := time.Now()
	defer func() { s.record(ctx, metrics.ReportFunnel, start, err) }()

	rng, err := domain.ParseOptionalDateRange(req.Start, req.End)
	if err != nil {
		return domain.FunnelReport{}, err
	}

	var (
		stores []domain.Store
		active domain.ActiveStores
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ListStores(gctx, s.db)
		if err != nil {
			return fmt.Errorf("load stores: %w", err)
		}
		stores = rows
		return nil
	})
	g.Go(func() error {
		resolved, err := ResolveActiveStores(gctx, s.repo, s.db, rng)
		if err != nil {
			return err
		}
		active = resolved
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("funnel read failed", zap.Error(err))
		return domain.FunnelReport{}, err
	}

	lifecycle := s.lifecycle.Get()
	classification := Classify(stores, active, statusGroups(lifecycle), domain.NewOwnerDirectory(lifecycle.OwnerNames()), rng)
	report = BuildFunnelReport(classification, active, rng)

	s.metrics.RecordStoresScanned(ctx, metrics.ReportFunnel, len(stores))
	s.log.Debug("funnel built",
		zap.Int("stores", len(stores)),
		zap.Int("active_seqs", active.Seqs.Len()),
		zap.Bool("all_time", rng == nil),
	)
	return report, nil
}

func (s *Service) GetHeatmap(ctx context.Context, req domain.HeatmapRequest) (report domain.HeatmapReport, err error) {
	start := time.Now()
	defer func() { s.record(ctx, metrics.ReportHeatmap, start, err) }()

	rng, err := domain.ParseRequiredDateRange(req.Start, req.End)
	if err != nil {
		return domain.HeatmapReport{}, err
	}
	if limit := s.reports.HeatmapMaxDays; limit > 0 && rng.DayCount() > limit {
		return domain.HeatmapReport{}, domain.ErrDateRangeTooLarge
	}
	days, err := rng.Days()
	if err != nil {
		return domain.HeatmapReport{}, err
	}

	var (
		stores []domain.Store
		counts DailyOrderCounts
		pages  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ListStores(gctx, s.db)
		if err != nil {
			return fmt.Errorf("load stores: %w", err)
		}
		stores = rows
		return nil
	})
	g.Go(func() error {
		pager := s.repo.StoreDailyOrderPages(s.db, rng, s.reports.HeatmapPageSize)
		collected, n, err := CollectDailyOrders(gctx, pager, rng)
		pages = n
		if err != nil {
			return err
		}
		counts = collected
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("heatmap read failed", zap.Error(err), zap.Int("pages", pages))
		return domain.HeatmapReport{}, err
	}

	lifecycle := s.lifecycle.Get()
	report = BuildHeatmap(rng, days, stores, counts, statusGroups(lifecycle), domain.NewOwnerDirectory(lifecycle.OwnerNames()))

	s.metrics.RecordHeatmapPages(ctx, pages)
	s.metrics.RecordStoresScanned(ctx, metrics.ReportHeatmap, len(stores))
	s.log.Debug("heatmap built",
		zap.Int("days", len(days)),
		zap.Int("rows", len(report.Stores)),
		zap.Int("pages", pages),
	)
	return report, nil
}

func (s *Service) record(ctx context.Context, report string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case isValidationError(err):
		outcome = metrics.OutcomeInvalid
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.RecordReport(ctx, report, outcome, time.Since(start))
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, domain.ErrDateRangeRequired) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrDateRangeTooLarge)
}

func statusGroups(cfg config.LifecycleConfig) domain.StatusGroups {
	st := cfg.Statuses
	return domain.NewStatusGroups(
		st.FullyInstalled,
		st.ServiceTerminated,
		st.UnusedTerminated,
		st.DefectRepair,
		st.Pending,
		st.InstallCompleted,
		st.Churned,
	)
}
