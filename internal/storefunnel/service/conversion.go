package service

import (
	"math"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
)

// Rate is numerator/denominator as a percentage rounded to one decimal.
// A zero denominator yields 0.
func Rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*1000) / 10
}

// BuildFunnelReport applies conversion rates to a classification.
func BuildFunnelReport(c domain.Classification, active domain.ActiveStores, rng *domain.DateRange) domain.FunnelReport {
	totals := c.Totals
	totals.ActiveRate = Rate(totals.ActiveStores, totals.InstallCompleted)
	totals.ChurnRate = Rate(totals.Churned, totals.InstallCompleted)
	totals.RegisterToInstallRate = Rate(totals.InstallCompleted, totals.Registered)

	owners := make(map[string]domain.OwnerStats, len(c.OwnerStats))
	for id, stats := range c.OwnerStats {
		if stats == nil {
			continue
		}
		owner := *stats
		owner.RegisterToInstall = Rate(owner.InstallCompleted, owner.Registered)
		owner.InstallToActive = Rate(owner.Active, owner.InstallCompleted)
		owners[id] = owner
	}

	return domain.FunnelReport{
		DateRange:          rng,
		OverallStats:       c.OverallStats,
		OwnerStats:         owners,
		Funnel:             totals,
		TotalOrderCount:    active.TotalOrderCount,
		TotalCustomerCount: active.TotalCustomerCount,
		InstallDetail:      c.InstallDetail,
	}
}
