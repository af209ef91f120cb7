package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/order/model"
	"cashonrails-backend/internal/domains/order/service"
	"cashonrails-backend/internal/shared/response"
	"cashonrails-backend/pkg/logger"
)

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// =====================================================
// GET PAYMENT STATUS
// =====================================================

// GetPaymentStatus godoc
// @Summary Get order payment status
// @Description Order status, payment notes and linked subscriptions
// @Tags Orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} response.Response{data=model.PaymentStatusResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /v1/orders/{order_id}/payment [get]
func (h *OrderHandler) GetPaymentStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Order ID must be a valid UUID")
		return
	}

	result, err := h.orderService.GetPaymentStatus(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		logger.ErrorFields("get payment status failed", err, map[string]interface{}{
			"order_id":   orderID,
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, result)
}
