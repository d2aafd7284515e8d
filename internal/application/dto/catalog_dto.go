package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse a catalog product as served to the storefront.
type ProductResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	ImageURL             string          `json:"imageUrl"`
	Price                decimal.Decimal `json:"price"`
	Quantity             int             `json:"quantity"`
	Category             string          `json:"category"`
	Description          string          `json:"description"`
	PlantingInstructions string          `json:"plantingInstructions,omitempty"`
}

// RefreshResponse result of a forced catalog resync.
type RefreshResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	ProductCount int       `json:"productCount"`
	Timestamp    time.Time `json:"timestamp"`
}
