package handler

import (
	"github.com/gin-gonic/gin"

	"shopadmin/internal/api/order"
	"shopadmin/internal/model"
	"shopadmin/pkg/utils"
)

// OrderHandler order endpoints
type OrderHandler struct {
	orders order.API
}

// NewOrderHandler creates an order handler
func NewOrderHandler(api order.API) *OrderHandler {
	return &OrderHandler{orders: api}
}

// Query lists orders. An empty body lists everything.
func (h *OrderHandler) Query(c *gin.Context) {
	var params model.GetOrderListParams
	if !bindOptionalJSON(c, &params) {
		return
	}

	list, err := h.orders.List(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, list)
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	detail, err := h.orders.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, detail)
}

// UpdateStatus changes the status of one order
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var params model.UpdateOrderStatusParams
	if !bindJSON(c, &params) {
		return
	}

	reply, err := h.orders.UpdateStatus(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, reply)
}

// Batch applies one action to several orders in one backend request.
// The backend's reply, including any per-order failures, is passed through.
func (h *OrderHandler) Batch(c *gin.Context) {
	var params model.BatchUpdateOrderParams
	if !bindJSON(c, &params) {
		return
	}

	reply, err := h.orders.BatchUpdate(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, reply)
}

// Statistics returns order statistics for a date range
func (h *OrderHandler) Statistics(c *gin.Context) {
	var params model.GetOrderStatisticsParams
	if !bindOptionalJSON(c, &params) {
		return
	}

	stats, err := h.orders.Statistics(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}
