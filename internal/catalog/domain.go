package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUpstreamStatus is returned when the catalog endpoint answers with an error status.
var ErrUpstreamStatus = errors.New("catalog: upstream returned error status")

// Product is one read-only catalog record.
type Product struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Rating      decimal.NullDecimal `json:"rating"`
	Brand       string              `json:"brand"`
	Category    string              `json:"category"`
	Thumbnail   string              `json:"thumbnail"`
}

// Snapshot is the state of the fetched collection at a point in time.
type Snapshot struct {
	Loading   bool
	Products  []Product
	FetchedAt time.Time
	Err       error
}

// Len reports the number of fetched products.
func (s Snapshot) Len() int {
	return len(s.Products)
}

// Source fetches the full product collection once.
type Source interface {
	Fetch(ctx context.Context) ([]Product, error)
}
