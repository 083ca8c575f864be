package server

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/storepulse/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/storepulse/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	rateLimitReasonClientRate         = "client-rate"
	rateLimitReasonHeatmapConcurrency = "heatmap-concurrency"
)

// ReportRateLimit throttles report requests per client address. Limiter
// failures fail open so a redis outage does not take reports down.
func (s *Server) ReportRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		report := reportMode(c)
		c.Set("report", report)

		if s.limiter == nil || !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		client := c.ClientIP()

		res, err := s.limiter.Allow(ctx, report, client)
		if err != nil {
			logger.FromContext(ctx).Warn("report rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			denyReportRateLimit(c, report, rateLimitReasonClientRate, res.RetryAfter, s.obsMetrics)
			return
		}

		if report == reportHeatmap {
			token, locked, err := s.limiter.TryLockHeatmap(ctx, client)
			if err != nil {
				logger.FromContext(ctx).Warn("heatmap concurrency lock failed", zap.Error(err))
				c.Next()
				return
			}
			if !locked {
				denyReportRateLimit(c, report, rateLimitReasonHeatmapConcurrency, time.Second, s.obsMetrics)
				return
			}
			defer func() {
				if err := s.limiter.ReleaseHeatmap(ctx, client, token); err != nil {
					logger.FromContext(ctx).Warn("heatmap concurrency unlock failed", zap.Error(err))
				}
			}()
		}

		c.Next()
	}
}

func denyReportRateLimit(c *gin.Context, report, reason string, retryAfter time.Duration, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("report rate limit exceeded",
		zap.String("reason", reason),
		zap.String("report", report),
	)
	recordRateLimitDenied(ctx, report, reason, metrics)

	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitDenied(ctx context.Context, report, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, report, reason)
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
