package booking

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	platformFeeRate = 0.15
	taxRate         = 0.10
)

// Quote is the price breakdown for a set of booked services.
// All amounts are in minor currency units.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	PlatformFee int64 `json:"platform_fee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// PriceServices computes the quote: subtotal from service prices, a 15%
// platform fee rounded to the nearest unit, then 10% tax on subtotal+fee.
func PriceServices(services []BookedService) Quote {
	var subtotal int64
	for _, s := range services {
		subtotal += s.Price
	}
	fee := int64(math.Round(float64(subtotal) * platformFeeRate))
	tax := int64(math.Round(float64(subtotal+fee) * taxRate))
	return Quote{
		Subtotal:    subtotal,
		PlatformFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}
}

// NewBookingNumber generates a human-readable booking number. Uniqueness is
// enforced by the storage unique index; callers retry on collision.
func NewBookingNumber() string {
	return fmt.Sprintf("BK-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
