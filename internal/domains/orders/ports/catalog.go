package ports

import "context"

// Product is the read-only, point-in-time view of a catalog record. The
// authoritative copy lives in the external product service.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductCatalog validates product references against the external catalog.
// One remote call per invocation; the result is the matched subset, so the
// caller must check that every requested id came back.
type ProductCatalog interface {
	Validate(ctx context.Context, ids []int64) ([]Product, error)
}
