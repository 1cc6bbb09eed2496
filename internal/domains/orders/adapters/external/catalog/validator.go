package catalog

import (
	"context"
	"errors"

	catalogclient "github.com/ordercore/go-orders-service/internal/clients/http/catalog"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

// Validator implements the outbound product catalog port over HTTP.
type Validator struct {
	client *catalogclient.Client
}

// NewValidator wires a catalog HTTP client into a validation adapter.
func NewValidator(client *catalogclient.Client) *Validator {
	return &Validator{client: client}
}

// Validate issues one remote call and returns the matched product subset.
func (v *Validator) Validate(ctx context.Context, ids []int64) ([]ports.Product, error) {
	if v == nil || v.client == nil {
		return nil, errors.New("catalog validator not configured")
	}
	matched, err := v.client.ValidateProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make([]ports.Product, 0, len(matched))
	for _, p := range matched {
		products = append(products, ports.Product{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return products, nil
}

var _ ports.ProductCatalog = (*Validator)(nil)
