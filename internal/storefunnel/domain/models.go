package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Store is a merchant account as recorded by onboarding. Rows are read-only here.
type Store struct {
	StoreID   string     `gorm:"column:store_id;primaryKey" json:"store_id"`
	StoreName string     `gorm:"column:store_name" json:"store_name"`
	Seq       string     `gorm:"column:seq;index" json:"seq"`
	Status    string     `gorm:"column:status" json:"status"`
	OwnerID   *string    `gorm:"column:owner_id" json:"owner_id,omitempty"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (Store) TableName() string { return "stores" }

// OrderStat holds lifetime totals for a store, keyed by seq.
type OrderStat struct {
	Seq           string `gorm:"column:seq;primaryKey" json:"seq"`
	OrderCount    int64  `gorm:"column:order_count;not null;default:0" json:"order_count"`
	CustomerCount int64  `gorm:"column:customer_count;not null;default:0" json:"customer_count"`
}

func (OrderStat) TableName() string { return "order_stats" }

// DailyStat is one system-wide day: its order count and the seqs that ordered.
type DailyStat struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"order_count"`
	StoreSeqs  SeqSet `json:"store_seqs"`
}

// DailyStatRow is the persisted form of DailyStat. store_seqs is a JSON array.
type DailyStatRow struct {
	Date       string         `gorm:"column:date;primaryKey"`
	OrderCount int64          `gorm:"column:order_count;not null;default:0"`
	StoreSeqs  datatypes.JSON `gorm:"column:store_seqs"`
}

func (DailyStatRow) TableName() string { return "daily_stats" }

// StoreDailyOrder is a single store's order count on one day.
type StoreDailyOrder struct {
	Seq        string `gorm:"column:seq;primaryKey" json:"seq"`
	OrderDate  string `gorm:"column:order_date;primaryKey" json:"order_date"`
	OrderCount int64  `gorm:"column:order_count;not null;default:0" json:"order_count"`
}

func (StoreDailyOrder) TableName() string { return "store_daily_orders" }

// Owner is an account owner managing a subset of the fleet.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderCounts are the order and customer figures attributed to one store.
type OrderCounts struct {
	OrderCount    int64 `json:"order_count"`
	CustomerCount int64 `json:"customer_count"`
}

// ActiveStores is the outcome of resolving which stores ordered in a window.
type ActiveStores struct {
	Seqs               SeqSet
	StatsBySeq         map[string]OrderCounts
	TotalOrderCount    int64
	TotalCustomerCount int64
}

// FunnelTotals are the fleet-wide funnel stage counts and their rates.
type FunnelTotals struct {
	Registered            int     `json:"registered"`
	InstallCompleted      int     `json:"install_completed"`
	ActiveStores          int     `json:"active_stores"`
	Churned               int     `json:"churned"`
	ActiveRate            float64 `json:"active_rate"`
	ChurnRate             float64 `json:"churn_rate"`
	RegisterToInstallRate float64 `json:"register_to_install_rate"`
}

// OwnerStats are the funnel tallies for the stores of one owner.
type OwnerStats struct {
	OwnerID           string         `json:"owner_id"`
	OwnerName         string         `json:"owner_name"`
	Stats             map[string]int `json:"stats"`
	Registered        int            `json:"registered"`
	InstallCompleted  int            `json:"install_completed"`
	Active            int            `json:"active"`
	Churned           int            `json:"churned"`
	RegisterToInstall float64        `json:"register_to_install"`
	InstallToActive   float64        `json:"install_to_active"`
}

// StoreDetail is one store entry inside an install detail bucket.
type StoreDetail struct {
	StoreID       string `json:"store_id"`
	StoreName     string `json:"store_name"`
	Seq           string `json:"seq"`
	OwnerID       string `json:"owner_id"`
	OwnerName     string `json:"owner_name"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at,omitempty"`
	HasOrder      bool   `json:"has_order"`
	OrderCount    int64  `json:"order_count"`
	CustomerCount int64  `json:"customer_count"`
}

// InstallDetail groups stores of the install-completed cohort by outcome.
type InstallDetail struct {
	Active             []StoreDetail `json:"active"`
	Inactive           []StoreDetail `json:"inactive"`
	ChurnedService     []StoreDetail `json:"churned_service"`
	ChurnedUnused      []StoreDetail `json:"churned_unused"`
	Repair             []StoreDetail `json:"repair"`
	Pending            []StoreDetail `json:"pending"`
	ActiveNotCompleted []StoreDetail `json:"active_not_completed"`
}

// NewInstallDetail returns a detail with every bucket non-nil so each encodes as [].
func NewInstallDetail() InstallDetail {
	return InstallDetail{
		Active:             []StoreDetail{},
		Inactive:           []StoreDetail{},
		ChurnedService:     []StoreDetail{},
		ChurnedUnused:      []StoreDetail{},
		Repair:             []StoreDetail{},
		Pending:            []StoreDetail{},
		ActiveNotCompleted: []StoreDetail{},
	}
}

// Classification is the classifier output before rates are applied.
type Classification struct {
	OverallStats  map[string]int
	OwnerStats    map[string]*OwnerStats
	Totals        FunnelTotals
	InstallDetail InstallDetail
}

// FunnelReport is the funnel response.
type FunnelReport struct {
	DateRange          *DateRange            `json:"date_range"`
	OverallStats       map[string]int        `json:"overall_stats"`
	OwnerStats         map[string]OwnerStats `json:"owner_stats"`
	Funnel             FunnelTotals          `json:"funnel"`
	TotalOrderCount    int64                 `json:"total_order_count"`
	TotalCustomerCount int64                 `json:"total_customer_count"`
	InstallDetail      InstallDetail         `json:"install_detail"`
}

// HeatmapRow is one store's per-day order series.
type HeatmapRow struct {
	StoreID   string           `json:"store_id"`
	StoreName string           `json:"store_name"`
	Seq       string           `json:"seq"`
	OwnerID   string           `json:"owner_id"`
	OwnerName string           `json:"owner_name"`
	Orders    map[string]int64 `json:"orders"`
	Total     int64            `json:"total"`
}

// HeatmapReport is the heatmap response.
type HeatmapReport struct {
	DateRange DateRange    `json:"date_range"`
	Dates     []string     `json:"dates"`
	Stores    []HeatmapRow `json:"stores"`
	Owners    []Owner      `json:"owners"`
}
