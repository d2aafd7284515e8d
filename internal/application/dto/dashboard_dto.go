package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogStatusDTO stock counts and last sheet sync of one catalog.
type CatalogStatusDTO struct {
	Kind       string     `json:"kind"`
	InStock    int        `json:"inStock"`
	OutOfStock int        `json:"outOfStock"`
	LastSyncAt *time.Time `json:"lastSyncAt"`
}

// DashboardDTO admin overview.
type DashboardDTO struct {
	OrdersByStatus map[string]int     `json:"ordersByStatus"`
	Revenue        decimal.Decimal    `json:"revenue"`
	OrdersToday    int                `json:"ordersToday"`
	Catalogs       []CatalogStatusDTO `json:"catalogs"`
	GeneratedAt    time.Time          `json:"generatedAt"`
}
