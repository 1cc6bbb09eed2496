// Package httpx exposes the orders use cases over HTTP with gin.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderapp "github.com/ordercore/go-orders-service/internal/domains/orders/application"
	ordertypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
	sharederrors "github.com/ordercore/go-orders-service/internal/shared/errors"
)

// Handler wires HTTP transport with the orders service and workflows.
type Handler struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *sharederrors.Responder
}

// NewHandler creates a Handler backed by the provided service. workflows may
// be nil, in which case creates run through the service directly.
func NewHandler(service ports.Service, workflows ports.WorkflowOrchestrator) *Handler {
	return &Handler{
		service:   service,
		workflows: workflows,
		responder: sharederrors.NewResponder(mapServiceError),
	}
}

// Post /v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var payload CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := payload.toInput()
	input.IdempotencyKey = c.GetHeader("Idempotency-Key")
	var err error
	var view any
	if h.workflows != nil {
		view, err = h.workflows.PlaceOrder(c.Request.Context(), input)
	} else {
		view, err = h.service.CreateOrder(c.Request.Context(), input)
	}
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get /v1/orders/:orderId
func (h *Handler) GetOrder(c *gin.Context) {
	view, err := h.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Get /v1/orders?page=&limit=&status=
func (h *Handler) ListOrders(c *gin.Context) {
	input, err := listInputFromQuery(c)
	if err != nil {
		h.responder.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	page, err := h.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Patch /v1/orders/:orderId/status
func (h *Handler) ChangeOrderStatus(c *gin.Context) {
	var payload ChangeStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	view, err := h.service.ChangeOrderStatus(c.Request.Context(), ordertypes.ChangeOrderStatusInput{
		ID:     c.Param("orderId"),
		Status: payload.Status,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func listInputFromQuery(c *gin.Context) (input ordertypes.ListOrdersInput, err error) {
	input.Status = c.Query("status")
	if raw := c.Query("page"); raw != "" {
		input.Page, err = strconv.Atoi(raw)
		if err != nil {
			return input, errors.New("page must be an integer")
		}
	}
	if raw := c.Query("limit"); raw != "" {
		input.Limit, err = strconv.Atoi(raw)
		if err != nil {
			return input, errors.New("limit must be an integer")
		}
	}
	return input, nil
}

func mapServiceError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderapp.ErrInvalidInput), errors.Is(err, orderapp.ErrProductsNotFound):
		return sharederrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}
