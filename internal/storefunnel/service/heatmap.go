package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
)

// DailyOrderCounts is seq -> order_date -> order count.
type DailyOrderCounts map[string]map[string]int64

// CollectDailyOrders drains pager into a nested count map.
func CollectDailyOrders(ctx context.Context, pager domain.DailyOrderPager, rng domain.DateRange) (DailyOrderCounts, int, error) {
	counts := DailyOrderCounts{}
	pages := 0
	for pager.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, pages, err
		}
		rows, err := pager.Next(ctx)
		if err != nil {
			return nil, pages, fmt.Errorf("load store daily orders: %w", err)
		}
		pages++
		for _, row := range rows {
			seq := strings.TrimSpace(row.Seq)
			if seq == "" || !rng.Contains(row.OrderDate) {
				continue
			}
			byDate, ok := counts[seq]
			if !ok {
				byDate = map[string]int64{}
				counts[seq] = byDate
			}
			byDate[row.OrderDate] += row.OrderCount
		}
	}
	return counts, pages, nil
}

// BuildHeatmap emits one dense row per fully installed store with a seq,
// including stores with no orders, ordered by total descending. Ties keep
// the order of stores.
func BuildHeatmap(rng domain.DateRange, days []string, stores []domain.Store, counts DailyOrderCounts, groups domain.StatusGroups, owners domain.OwnerDirectory) domain.HeatmapReport {
	rows := make([]domain.HeatmapRow, 0)
	ownerNames := map[string]string{}
	seen := map[string]struct{}{}

	for _, store := range stores {
		seq := strings.TrimSpace(store.Seq)
		if seq == "" || storeStatus(store) != groups.FullyInstalled {
			continue
		}
		if _, dup := seen[seq]; dup {
			continue
		}
		seen[seq] = struct{}{}

		ownerID := storeOwnerID(store)
		ownerName, ok := ownerNames[ownerID]
		if !ok {
			ownerName = owners.Name(ownerID)
			ownerNames[ownerID] = ownerName
		}

		byDate := counts[seq]
		orders := make(map[string]int64, len(days))
		var total int64
		for _, day := range days {
			count := byDate[day]
			orders[day] = count
			total += count
		}

		rows = append(rows, domain.HeatmapRow{
			StoreID:   store.StoreID,
			StoreName: store.StoreName,
			Seq:       seq,
			OwnerID:   ownerID,
			OwnerName: ownerName,
			Orders:    orders,
			Total:     total,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	ownerList := make([]domain.Owner, 0, len(ownerNames))
	for id, name := range ownerNames {
		ownerList = append(ownerList, domain.Owner{ID: id, Name: name})
	}
	sort.Slice(ownerList, func(i, j int) bool {
		if ownerList[i].Name == ownerList[j].Name {
			return ownerList[i].ID < ownerList[j].ID
		}
		return ownerList[i].Name < ownerList[j].Name
	})

	return domain.HeatmapReport{
		DateRange: rng,
		Dates:     days,
		Stores:    rows,
		Owners:    ownerList,
	}
}
