// Package nats implements the product catalog port over NATS request-reply,
// matching the message-bus wiring the catalog service exposes in production.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

// DefaultSubject is the catalog's validation request subject.
const DefaultSubject = "validate_products"

// Connect dials NATS with reconnect handling wired to the given logger.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("orders-service"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if logger != nil && err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			if logger != nil {
				logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// Validator implements the product catalog port via request-reply.
type Validator struct {
	nc      *nats.Conn
	subject string
}

// Option configures the validator.
type Option func(*Validator)

// WithSubject overrides the validation request subject.
func WithSubject(subject string) Option {
	return func(v *Validator) {
		if subject != "" {
			v.subject = subject
		}
	}
}

// NewValidator wires a NATS connection into a validation adapter.
func NewValidator(nc *nats.Conn, opts ...Option) *Validator {
	v := &Validator{nc: nc, subject: DefaultSubject}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate sends the requested ids as one request and decodes the matched
// subset from the reply. Context cancellation aborts the in-flight request.
func (v *Validator) Validate(ctx context.Context, ids []int64) ([]ports.Product, error) {
	if v == nil || v.nc == nil {
		return nil, errors.New("nats catalog validator not configured")
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	msg, err := v.nc.RequestWithContext(ctx, v.subject, payload)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", v.subject, err)
	}
	var products []ports.Product
	if err := json.Unmarshal(msg.Data, &products); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", v.subject, err)
	}
	return products, nil
}

var _ ports.ProductCatalog = (*Validator)(nil)
