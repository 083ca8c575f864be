package seed

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storepulse/internal/clock"
	"github.com/smallbiznis/storepulse/internal/storefunnel/domain"
	"github.com/smallbiznis/storepulse/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fleet describes a synthetic store population for local environments.
type Fleet struct {
	Stores int
	Days   int
	Owners []string
	Seed   int64
	Clock  clock.Clock
}

type Summary struct {
	Stores  int
	Days    int
	Created bool
}

func DefaultFleet() Fleet {
	return Fleet{
		Stores: 60,
		Days:   45,
		Owners: []string{"kim@storepulse.dev", "lee@storepulse.dev", "park@storepulse.dev"},
		Seed:   42,
		Clock:  clock.System(),
	}
}

var statusWeights = []struct {
	status string
	weight int
}{
	{domain.StatusQRMenuInstall, 50},
	{domain.StatusServiceTerminated, 8},
	{domain.StatusUnusedTerminated, 7},
	{domain.StatusDefectRepair, 5},
	{domain.StatusPending, 5},
	{domain.StatusInstallScheduled, 10},
	{domain.StatusInstallRequested, 8},
	{domain.StatusRegistered, 7},
}

// EnsureDemoFleet fills empty reporting tables with a deterministic fleet.
// It does nothing when stores already exist.
func EnsureDemoFleet(ctx context.Context, conn *gorm.DB, fleet Fleet) (Summary, error) {
	if conn == nil {
		return Summary{}, errors.New("seed database handle is required")
	}
	if fleet.Stores <= 0 || fleet.Days <= 0 {
		return Summary{}, errors.New("seed fleet requires stores and days")
	}

	var existing int64
	if err := conn.WithContext(ctx).Model(&domain.Store{}).Count(&existing).Error; err != nil {
		return Summary{}, err
	}
	if existing > 0 {
		return Summary{Stores: int(existing), Days: fleet.Days}, nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return Summary{}, err
	}

	data := generate(node, fleet)
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(data.stores, 200).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(data.orderStats, 200).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(data.dailyStats, 200).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(data.dailyOrders, 500).Error
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Another instance seeded concurrently.
			return Summary{Stores: fleet.Stores, Days: fleet.Days}, nil
		}
		return Summary{}, err
	}

	return Summary{Stores: fleet.Stores, Days: fleet.Days, Created: true}, nil
}

type fleetData struct {
	stores      []domain.Store
	orderStats  []domain.OrderStat
	dailyStats  []domain.DailyStatRow
	dailyOrders []domain.StoreDailyOrder
}

func generate(node *snowflake.Node, fleet Fleet) fleetData {
	rng := rand.New(rand.NewSource(fleet.Seed))
	if fleet.Clock == nil {
		fleet.Clock = clock.System()
	}
	now := fleet.Clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(fleet.Days - 1))

	data := fleetData{}
	type dayTotals struct {
		orders int64
		seqs   domain.SeqSet
	}
	days := make(map[string]*dayTotals, fleet.Days)

	for i := 0; i < fleet.Stores; i++ {
		seq := strconv.Itoa(1000 + i)
		status := pickStatus(rng)
		created := first.AddDate(0, 0, rng.Intn(fleet.Days+30)-30)

		store := domain.Store{
			StoreID:   node.Generate().String(),
			StoreName: "Demo Store " + seq,
			Seq:       seq,
			Status:    status,
			CreatedAt: &created,
		}
		if len(fleet.Owners) > 0 && rng.Intn(10) > 0 {
			owner := fleet.Owners[rng.Intn(len(fleet.Owners))]
			store.OwnerID = &owner
		}
		data.stores = append(data.stores, store)

		if !ordersFor(status) {
			continue
		}

		var lifetime int64
		for d := 0; d < fleet.Days; d++ {
			day := first.AddDate(0, 0, d)
			if day.Before(created) || rng.Intn(3) == 0 {
				continue
			}
			count := int64(1 + rng.Intn(20))
			date := day.Format(domain.DateLayout)
			data.dailyOrders = append(data.dailyOrders, domain.StoreDailyOrder{Seq: seq, OrderDate: date, OrderCount: count})

			totals, ok := days[date]
			if !ok {
				totals = &dayTotals{seqs: domain.SeqSet{}}
				days[date] = totals
			}
			totals.orders += count
			totals.seqs.Add(seq)
			lifetime += count
		}
		if lifetime > 0 {
			data.orderStats = append(data.orderStats, domain.OrderStat{
				Seq:           seq,
				OrderCount:    lifetime,
				CustomerCount: max(1, lifetime/3),
			})
		}
	}

	for d := 0; d < fleet.Days; d++ {
		date := first.AddDate(0, 0, d).Format(domain.DateLayout)
		totals, ok := days[date]
		if !ok {
			data.dailyStats = append(data.dailyStats, domain.DailyStatRow{Date: date, StoreSeqs: datatypes.JSON("[]")})
			continue
		}
		raw, _ := json.Marshal(totals.seqs)
		data.dailyStats = append(data.dailyStats, domain.DailyStatRow{
			Date:       date,
			OrderCount: totals.orders,
			StoreSeqs:  datatypes.JSON(raw),
		})
	}

	return data
}

func pickStatus(rng *rand.Rand) string {
	total := 0
	for _, w := range statusWeights {
		total += w.weight
	}
	n := rng.Intn(total)
	for _, w := range statusWeights {
		if n < w.weight {
			return w.status
		}
		n -= w.weight
	}
	return domain.StatusRegistered
}

// ordersFor reports whether stores in status place orders in the demo data.
// Install-scheduled stores order occasionally to populate active_not_completed.
func ordersFor(status string) bool {
	switch status {
	case domain.StatusQRMenuInstall, domain.StatusServiceTerminated, domain.StatusDefectRepair, domain.StatusInstallScheduled:
		return true
	default:
		return false
	}
}
