package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLifecycleConfigDefaultsWhenFileMissing(t *testing.T) {
	holder, err := NewLifecycleConfigHolder(Config{}, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "QR_MENU_INSTALL", cfg.Statuses.FullyInstalled)
	assert.ElementsMatch(t, []string{"SERVICE_TERMINATED", "UNUSED_TERMINATED"}, cfg.Statuses.Churned)
	assert.Len(t, cfg.Statuses.InstallCompleted, 4)
}

func TestLifecycleConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifecycle.yml")
	content := `
lifecycle:
  statuses:
    fullyInstalled: LIVE
    serviceTerminated: CLOSED
    unusedTerminated: DORMANT
    defectRepair: REPAIR
    pending: ON_HOLD
    installCompleted: [LIVE, CLOSED, DORMANT, REPAIR, ON_HOLD]
    churned: [CLOSED, DORMANT]
  owners:
    - id: kim@example.com
      name: Kim
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	holder, err := NewLifecycleConfigHolder(Config{LifecycleConfigPath: path}, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "LIVE", cfg.Statuses.FullyInstalled)
	assert.Equal(t, "ON_HOLD", cfg.Statuses.Pending)
	assert.Len(t, cfg.Statuses.InstallCompleted, 5)
	assert.Equal(t, map[string]string{"kim@example.com": "Kim"}, cfg.OwnerNames())
}

func TestLifecycleConfigRejectsChurnOutsideInstallCompleted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifecycle.yml")
	content := `
lifecycle:
  statuses:
    fullyInstalled: LIVE
    installCompleted: [LIVE]
    churned: [CLOSED]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewLifecycleConfigHolder(Config{LifecycleConfigPath: path}, zap.NewNop())
	assert.Error(t, err)
}

func TestLifecycleConfigMissingExplicitFileFails(t *testing.T) {
	_, err := NewLifecycleConfigHolder(Config{LifecycleConfigPath: filepath.Join(t.TempDir(), "missing.yml")}, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadReadsReportSettings(t *testing.T) {
	t.Setenv("REPORTS_HEATMAP_MAX_DAYS", "31")
	t.Setenv("REPORTS_RATE_LIMIT_PER_SEC", "0.5")
	t.Setenv("SEED_DEMO_DATA", "yes")
	t.Setenv("DATABASE_TYPE", "SQLite")

	cfg := Load()
	assert.Equal(t, 31, cfg.Reports.HeatmapMaxDays)
	assert.Equal(t, 0.5, cfg.Reports.RateLimitPerSec)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "sqlite", cfg.DBType)
}
