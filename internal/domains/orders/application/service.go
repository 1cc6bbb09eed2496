package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	types "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Service orchestrates the orders bounded context: it coordinates the remote
// product validation, derives totals, and delegates durable state to the
// repository. Validation always happens strictly before persistence.
type Service struct {
	repo        ports.Repository
	catalog     ports.ProductCatalog
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger attaches a structured logger used for degradation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIdempotencyStore enables replay of create requests that carry an
// Idempotency-Key. Without a store the key is ignored.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, catalog ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder validates the draft against the catalog, prices each line with
// the current unit price, and persists the aggregate in one atomic insert.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderView, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return nil, mapError(domain.ErrInvalidProductID)
		}
		if item.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != requestHash {
				return nil, fmt.Errorf("%w: key %q was used with a different payload", ports.ErrIdempotencyConflict, key)
			}
			return s.GetOrder(ctx, existing.OrderID)
		}
	}

	ids := distinctProductIDs(input.Items)
	products, err := s.validateCoverage(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Each draft line is priced independently; duplicates stay separate rows.
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, draft := range input.Items {
		items = append(items, domain.OrderItem{
			ProductID: draft.ProductID,
			Quantity:  draft.Quantity,
			Price:     products[draft.ProductID].Price,
		})
	}
	order, err := domain.NewOrder(items)
	if err != nil {
		return nil, mapError(err)
	}

	saved, err := s.repo.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			OrderID:     saved.ID,
		})
		if err != nil {
			// A concurrent retry won the race; replay its order when the
			// payload matches, otherwise surface the conflict.
			if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil && stored.RequestHash == requestHash {
				return s.GetOrder(ctx, stored.OrderID)
			}
			return nil, err
		}
	}
	return toView(saved, products), nil
}

// GetOrder loads an aggregate and re-validates its product ids purely to
// attach current catalog names. A catalog outage must not make historical
// orders unreadable, so naming degrades to blank on failure.
func (s *Service) GetOrder(ctx context.Context, id string) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("order #%s not found: %w", id, ports.ErrNotFound)
		}
		return nil, err
	}

	ids := distinctItemProductIDs(order.Items)
	products, err := s.catalog.Validate(ctx, ids)
	named := make(map[int64]ports.Product, len(products))
	if err != nil {
		s.logWarn(ctx, "catalog unavailable, returning order without product names",
			slog.String("order.id", id), slog.String("error", err.Error()))
	} else {
		for _, p := range products {
			named[p.ID] = p
		}
	}
	return toView(order, named), nil
}

// ListOrders pages through orders, optionally filtered by status. Zero
// matches is reported as not-found, mirroring the service contract rather
// than returning an empty page.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) (*types.OrderPage, error) {
	page, limit := input.Page, input.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	var status domain.Status
	if input.Status != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		status = parsed
	}

	total, err := s.repo.Count(ctx, status)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		if status != "" {
			return nil, fmt.Errorf("no orders found with status %s: %w", status, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("no orders found: %w", ports.ErrNotFound)
	}

	orders, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]types.OrderView, 0, len(orders))
	for _, order := range orders {
		data = append(data, *toView(order, nil))
	}
	return &types.OrderPage{
		Data: data,
		Meta: types.PageMeta{
			Total:    total,
			Page:     page,
			LastPage: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// ChangeOrderStatus transitions an order to the requested status. Requesting
// the current status is an idempotent no-op that performs no write.
func (s *Service) ChangeOrderStatus(ctx context.Context, input types.ChangeOrderStatusInput) (*types.OrderView, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}

	current, err := s.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == string(status) {
		return current, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, input.ID, status)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("order #%s not found: %w", input.ID, ports.ErrNotFound)
		}
		return nil, err
	}
	return toView(updated, nil), nil
}

// validateCoverage performs the single remote catalog call and enforces the
// coverage check: every requested id must be present in the response.
func (s *Service) validateCoverage(ctx context.Context, ids []int64) (map[int64]ports.Product, error) {
	products, err := s.catalog.Validate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProductsNotFound, err)
	}
	matched := make(map[int64]ports.Product, len(products))
	for _, p := range products {
		matched[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := matched[id]; !ok {
			return nil, fmt.Errorf("%w: product #%d", ErrProductsNotFound, id)
		}
	}
	return matched, nil
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func distinctProductIDs(items []types.DraftItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func distinctItemProductIDs(items []domain.OrderItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func toView(order *domain.Order, products map[int64]ports.Product) *types.OrderView {
	view := &types.OrderView{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, types.OrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      products[item.ProductID].Name,
		})
	}
	return view
}

var _ ports.Service = (*Service)(nil)
