package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"math"
	"time"
)

// Product is the catalog entry a cart item snapshots its price from.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxPrice fits the NUMERIC(12,2) price columns.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// MaxOffset is the largest catalog page offset.
const MaxOffset = math.MaxInt32
