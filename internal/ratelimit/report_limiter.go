package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/storepulse/internal/config"
)

const (
	keyReportClient      = "reports:%s:client:%s"
	keyReportHeatmapLock = "reports:heatmap:lock:%s"
)

// ReportLimiter throttles report requests per client and allows one heatmap
// build per client at a time.
type ReportLimiter struct {
	bucket *TokenBucket
	locker *Locker

	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewReportLimiter(client *redis.Client, cfg config.Config) (*ReportLimiter, error) {
	if client == nil {
		return nil, nil
	}
	reports := cfg.Reports
	if reports.RateLimitPerSec <= 0 || reports.RateLimitBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}

	return &ReportLimiter{
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    reports.RateLimitPerSec,
		burst:   reports.RateLimitBurst,
		lockTTL: 30 * time.Second,
	}, nil
}

func (l *ReportLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *ReportLimiter) Allow(ctx context.Context, report, client string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, reportKey(report, client), l.rate, l.burst)
}

func (l *ReportLimiter) TryLockHeatmap(ctx context.Context, client string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyReportHeatmapLock, normalizeClient(client)), l.lockTTL)
}

func (l *ReportLimiter) ReleaseHeatmap(ctx context.Context, client, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyReportHeatmapLock, normalizeClient(client)), token)
}

func reportKey(report, client string) string {
	report = strings.TrimSpace(report)
	if report == "" {
		report = "unknown"
	}
	return fmt.Sprintf(keyReportClient, report, normalizeClient(client))
}

func normalizeClient(client string) string {
	client = strings.TrimSpace(client)
	if client == "" {
		return "anonymous"
	}
	return client
}
