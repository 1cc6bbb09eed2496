package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	types "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
)

type normalizedCreateOrderInput struct {
	Items []normalizedDraftItem `json:"items"`
}

type normalizedDraftItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

// FingerprintCreateOrder builds a deterministic hash of the create-order payload
// (excluding the idempotency key). Line order is part of the fingerprint.
func FingerprintCreateOrder(input types.CreateOrderInput) (string, error) {
	normalized := normalizedCreateOrderInput{
		Items: make([]normalizedDraftItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedDraftItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
