package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/storepulse/internal/config"
	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(repo *fakeRepo) domain.Service {
	lifecycle := config.DefaultLifecycleConfig()
	lifecycle.Owners = append(lifecycle.Owners, config.KnownOwner{ID: "kim@example.com", Name: "Kim Minji"})

	return New(Params{
		Log:       zap.NewNop(),
		Repo:      repo,
		Lifecycle: config.NewStaticLifecycleConfigHolder(lifecycle),
		Cfg: config.Config{Reports: config.ReportsConfig{
			HeatmapPageSize: 2,
			HeatmapMaxDays:  31,
		}},
	})
}

func mustTime(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func TestGetFunnelActiveInstalledStore(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "s1", StoreName: "Cafe One", Seq: "1", Status: domain.StatusQRMenuInstall, CreatedAt: mustTime(t, "2024-01-01T00:00:00Z")},
		},
		orderStats: []domain.OrderStat{{Seq: "1", OrderCount: 12, CustomerCount: 4}},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{})
	require.NoError(t, err)

	assert.Nil(t, report.DateRange)
	assert.Len(t, report.InstallDetail.Active, 1)
	assert.Empty(t, report.InstallDetail.Inactive)
	assert.Empty(t, report.InstallDetail.ActiveNotCompleted)
	assert.Equal(t, int64(12), report.InstallDetail.Active[0].OrderCount)
	assert.Equal(t, 100.0, report.Funnel.ActiveRate)
}

func TestGetFunnelServiceTerminatedStore(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "s2", Seq: "2", Status: domain.StatusServiceTerminated, OwnerID: strPtr("kim@example.com")},
		},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Funnel.Churned)
	assert.Equal(t, 1, report.Funnel.InstallCompleted)
	assert.Equal(t, 0, report.Funnel.ActiveStores)
	assert.Len(t, report.InstallDetail.ChurnedService, 1)
	assert.Equal(t, 0.0, report.Funnel.ActiveRate)
	assert.Equal(t, 100.0, report.Funnel.ChurnRate)

	owner := report.OwnerStats["kim@example.com"]
	assert.Equal(t, "Kim Minji", owner.OwnerName)
	assert.Equal(t, 1, owner.Churned)
}

func TestGetFunnelAllTimeTotals(t *testing.T) {
	repo := &fakeRepo{
		orderStats: []domain.OrderStat{{Seq: "5", OrderCount: 10, CustomerCount: 3}},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(10), report.TotalOrderCount)
	assert.Equal(t, int64(3), report.TotalCustomerCount)
	assert.Equal(t, 0, report.Funnel.Registered)
	assert.Equal(t, 0.0, report.Funnel.ActiveRate)
	assert.Equal(t, 0.0, report.Funnel.ChurnRate)
}

func TestGetFunnelPartitionsStores(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "a", Seq: "1", Status: domain.StatusQRMenuInstall},
			{StoreID: "b", Seq: "2", Status: domain.StatusQRMenuInstall},
			{StoreID: "c", Seq: "3", Status: domain.StatusUnusedTerminated},
			{StoreID: "d", Seq: "4", Status: domain.StatusDefectRepair},
			{StoreID: "e", Seq: "5", Status: "registered"},
			{StoreID: "f", Seq: "", Status: ""},
		},
		orderStats: []domain.OrderStat{{Seq: "1", OrderCount: 1}, {Seq: "5", OrderCount: 2}},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{})
	require.NoError(t, err)

	f := report.Funnel
	assert.Equal(t, 6, f.Registered)
	assert.Equal(t, 4, f.InstallCompleted)
	assert.Equal(t, 1, f.Churned)
	assert.Equal(t, 2, f.ActiveStores)
	assert.LessOrEqual(t, f.InstallCompleted, f.Registered)
	assert.LessOrEqual(t, f.Churned, f.InstallCompleted)
	assert.Equal(t, 66.7, f.RegisterToInstallRate)

	assert.Equal(t, 1, report.OverallStats[domain.StatusUnknown])
	assert.Equal(t, 1, report.OverallStats[domain.StatusRegistered])
	assert.Len(t, report.InstallDetail.ActiveNotCompleted, 1)
	assert.Len(t, report.InstallDetail.Inactive, 1)
	assert.Len(t, report.InstallDetail.Repair, 1)
	assert.Len(t, report.InstallDetail.ChurnedUnused, 1)

	unassigned := report.OwnerStats[domain.UnassignedOwnerID]
	assert.Equal(t, "Unassigned", unassigned.OwnerName)
	assert.Equal(t, 6, unassigned.Registered)
	assert.Equal(t, 66.7, unassigned.RegisterToInstall)
	assert.Equal(t, 50.0, unassigned.InstallToActive)
}

func TestGetFunnelSwapsReversedRange(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{{StoreID: "a", Seq: "1", Status: domain.StatusQRMenuInstall}},
		dailyStats: []domain.DailyStat{
			{Date: "2024-01-15", OrderCount: 3, StoreSeqs: domain.NewSeqSet("1")},
			{Date: "2024-03-01", OrderCount: 9, StoreSeqs: domain.NewSeqSet("2")},
		},
		orderStats: []domain.OrderStat{{Seq: "1", OrderCount: 40, CustomerCount: 7}},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{Start: "2024-02-01", End: "2024-01-01"})
	require.NoError(t, err)

	require.NotNil(t, report.DateRange)
	assert.Equal(t, "2024-01-01", report.DateRange.Start)
	assert.Equal(t, "2024-02-01", report.DateRange.End)
	assert.Equal(t, int64(3), report.TotalOrderCount)
	assert.Equal(t, int64(7), report.TotalCustomerCount)
	assert.Equal(t, [][]string{{"1"}}, repo.bySeqCalls)

	require.Len(t, report.InstallDetail.Active, 1)
	// Per-store figures are lifetime, not range scoped.
	assert.Equal(t, int64(40), report.InstallDetail.Active[0].OrderCount)
}

func TestGetFunnelRangeWithoutActivitySkipsOrderStats(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "old", Seq: "1", Status: domain.StatusQRMenuInstall, CreatedAt: mustTime(t, "2023-12-01T00:00:00Z")},
			{StoreID: "new", Seq: "2", Status: domain.StatusQRMenuInstall, CreatedAt: mustTime(t, "2024-02-10T00:00:00Z")},
		},
	}

	report, err := newTestService(repo).GetFunnel(context.Background(), domain.FunnelRequest{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)

	assert.Empty(t, repo.bySeqCalls)
	require.Len(t, report.InstallDetail.Inactive, 1)
	assert.Equal(t, "old", report.InstallDetail.Inactive[0].StoreID)
	assert.Equal(t, 2, report.Funnel.InstallCompleted)
}

func TestGetFunnelRejectsHalfRange(t *testing.T) {
	_, err := newTestService(&fakeRepo{}).GetFunnel(context.Background(), domain.FunnelRequest{Start: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestGetFunnelPropagatesReadFailure(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := newTestService(&fakeRepo{storesErr: boom}).GetFunnel(context.Background(), domain.FunnelRequest{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load stores")

	_, err = newTestService(&fakeRepo{dailyErr: boom}).GetFunnel(context.Background(), domain.FunnelRequest{Start: "2024-01-01", End: "2024-01-02"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load daily stats")
}

func TestGetHeatmapDenseRows(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "s7", StoreName: "Seven", Seq: "7", Status: domain.StatusQRMenuInstall},
		},
		daily: []domain.StoreDailyOrder{{Seq: "7", OrderDate: "2024-03-01", OrderCount: 4}},
	}

	report, err := newTestService(repo).GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-03-01", End: "2024-03-02"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, report.Dates)
	require.Len(t, report.Stores, 1)
	assert.Equal(t, map[string]int64{"2024-03-01": 4, "2024-03-02": 0}, report.Stores[0].Orders)
	assert.Equal(t, int64(4), report.Stores[0].Total)
}

func TestGetHeatmapIncludesIdleStoresAndSorts(t *testing.T) {
	repo := &fakeRepo{
		stores: []domain.Store{
			{StoreID: "idle", Seq: "1", Status: domain.StatusQRMenuInstall, OwnerID: strPtr("zoe@example.com")},
			{StoreID: "busy", Seq: "2", Status: domain.StatusQRMenuInstall, OwnerID: strPtr("kim@example.com")},
			{StoreID: "gone", Seq: "3", Status: domain.StatusServiceTerminated},
			{StoreID: "noseq", Seq: "", Status: domain.StatusQRMenuInstall},
		},
		daily: []domain.StoreDailyOrder{
			{Seq: "2", OrderDate: "2024-05-01", OrderCount: 3},
			{Seq: "2", OrderDate: "2024-05-02", OrderCount: 0},
			{Seq: "3", OrderDate: "2024-05-01", OrderCount: 8},
			{Seq: "2", OrderDate: "2024-06-01", OrderCount: 50},
		},
	}

	report, err := newTestService(repo).GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-05-01", End: "2024-05-03"})
	require.NoError(t, err)

	require.Len(t, report.Stores, 2)
	assert.Equal(t, "busy", report.Stores[0].StoreID)
	assert.Equal(t, int64(3), report.Stores[0].Total)
	assert.Equal(t, "idle", report.Stores[1].StoreID)
	assert.Equal(t, int64(0), report.Stores[1].Total)
	for _, row := range report.Stores {
		assert.Len(t, row.Orders, 3)
	}

	assert.Equal(t, []domain.Owner{
		{ID: "kim@example.com", Name: "Kim Minji"},
		{ID: "zoe@example.com", Name: "zoe"},
	}, report.Owners)
	assert.Equal(t, 2, repo.pageSize)
	assert.Equal(t, 2, repo.pagesRead)
}

func TestGetHeatmapValidation(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrDateRangeRequired)

	_, err = svc.GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-01-01", End: "01/02/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-01-01", End: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrDateRangeTooLarge)
}

func TestGetHeatmapSwapsReversedRange(t *testing.T) {
	report, err := newTestService(&fakeRepo{}).GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-02-03", End: "2024-02-01"})
	require.NoError(t, err)

	assert.Equal(t, domain.DateRange{Start: "2024-02-01", End: "2024-02-03"}, report.DateRange)
	assert.Equal(t, []string{"2024-02-01", "2024-02-02", "2024-02-03"}, report.Dates)
	assert.NotNil(t, report.Stores)
}

func TestGetHeatmapPropagatesPagingFailure(t *testing.T) {
	boom := errors.New("throttled")
	repo := &fakeRepo{
		stores:    []domain.Store{{StoreID: "s", Seq: "1", Status: domain.StatusQRMenuInstall}},
		ordersErr: boom,
	}

	_, err := newTestService(repo).GetHeatmap(context.Background(), domain.HeatmapRequest{Start: "2024-01-01", End: "2024-01-02"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load store daily orders")
}
