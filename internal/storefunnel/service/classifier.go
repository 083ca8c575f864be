package service

import (
	"strings"
	"time"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
)

// Classify places every store into the funnel stages and, for the
// install-completed cohort, into exactly one detail bucket.
func Classify(stores []domain.Store, active domain.ActiveStores, groups domain.StatusGroups, owners domain.OwnerDirectory, rng *domain.DateRange) domain.Classification {
	result := domain.Classification{
		OverallStats:  domain.NewStatusTally(),
		OwnerStats:    map[string]*domain.OwnerStats{},
		InstallDetail: domain.NewInstallDetail(),
	}

	for _, store := range stores {
		status := storeStatus(store)
		ownerID := storeOwnerID(store)
		seq := strings.TrimSpace(store.Seq)
		hasOrder := seq != "" && active.Seqs.Has(seq)

		owner, ok := result.OwnerStats[ownerID]
		if !ok {
			owner = &domain.OwnerStats{
				OwnerID:   ownerID,
				OwnerName: owners.Name(ownerID),
				Stats:     domain.NewStatusTally(),
			}
			result.OwnerStats[ownerID] = owner
		}

		result.OverallStats[status]++
		owner.Stats[status]++

		result.Totals.Registered++
		owner.Registered++

		detail := func() domain.StoreDetail {
			return storeDetail(store, seq, status, ownerID, owner.OwnerName, hasOrder, active.StatsBySeq)
		}

		if groups.IsInstallCompleted(status) {
			result.Totals.InstallCompleted++
			owner.InstallCompleted++

			bucket := &result.InstallDetail
			switch status {
			case groups.FullyInstalled:
				if hasOrder {
					bucket.Active = append(bucket.Active, detail())
				} else if createdWithinWindow(store.CreatedAt, rng) {
					bucket.Inactive = append(bucket.Inactive, detail())
				}
			case groups.ServiceTerminated:
				bucket.ChurnedService = append(bucket.ChurnedService, detail())
			case groups.UnusedTerminated:
				bucket.ChurnedUnused = append(bucket.ChurnedUnused, detail())
			case groups.DefectRepair:
				bucket.Repair = append(bucket.Repair, detail())
			case groups.Pending:
				bucket.Pending = append(bucket.Pending, detail())
			}
		} else if hasOrder {
			result.InstallDetail.ActiveNotCompleted = append(result.InstallDetail.ActiveNotCompleted, detail())
		}

		if hasOrder {
			result.Totals.ActiveStores++
			owner.Active++
		}

		if groups.IsChurned(status) {
			result.Totals.Churned++
			owner.Churned++
		}
	}

	return result
}

// createdWithinWindow reports whether a fully installed store without orders
// is old enough to count as inactive. Stores created after the window closes
// are left out; missing timestamps and all-time reports always count.
func createdWithinWindow(createdAt *time.Time, rng *domain.DateRange) bool {
	if rng == nil || createdAt == nil || createdAt.IsZero() {
		return true
	}
	return createdAt.UTC().Format(domain.DateLayout) <= rng.End
}

func storeDetail(store domain.Store, seq, status, ownerID, ownerName string, hasOrder bool, statsBySeq map[string]domain.OrderCounts) domain.StoreDetail {
	detail := domain.StoreDetail{
		StoreID:   store.StoreID,
		StoreName: store.StoreName,
		Seq:       seq,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Status:    status,
		HasOrder:  hasOrder,
	}
	if store.CreatedAt != nil && !store.CreatedAt.IsZero() {
		detail.CreatedAt = store.CreatedAt.UTC().Format(time.RFC3339)
	}
	if hasOrder {
		counts := statsBySeq[seq]
		detail.OrderCount = counts.OrderCount
		detail.CustomerCount = counts.CustomerCount
	}
	return detail
}

func storeStatus(store domain.Store) string {
	status := strings.ToUpper(strings.TrimSpace(store.Status))
	if status == "" {
		return domain.StatusUnknown
	}
	return status
}

func storeOwnerID(store domain.Store) string {
	if store.OwnerID == nil {
		return domain.UnassignedOwnerID
	}
	if id := strings.TrimSpace(*store.OwnerID); id != "" {
		return id
	}
	return domain.UnassignedOwnerID
}
