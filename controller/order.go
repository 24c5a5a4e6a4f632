package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
)

func GetAllOrders(c *gin.Context) {
	startIdx, num := paginationParams(c)
	userId := listScopeUserId(c)
	orders, err := model.GetAllOrders(userId, startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	total, err := model.GetOrderCount(userId)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    orders,
		"total":   total,
	})
}

func GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid order id")
		return
	}
	order, err := model.GetOrderById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	role := c.GetInt(ctxkey.Role)
	if role < model.RoleManagerUser && order.UserId != c.GetInt(ctxkey.Id) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "no permission to access this order",
		})
		return
	}
	helper.RespondData(c, order)
}

func AddOrder(c *gin.Context) {
	var order model.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		helper.RespondBadRequest(c, "invalid order payload: %s", err.Error())
		return
	}
	if order.Amount <= 0 || order.Plan == "" {
		helper.RespondBadRequest(c, "order amount and plan are required")
		return
	}
	order.Id = 0
	order.TradeNo = ""
	order.Status = model.OrderStatusPending
	order.UserId = c.GetInt(ctxkey.Id)
	if err := order.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, order)
}

type updateOrderStatusRequest struct {
	Status int `json:"status" binding:"required"`
}

// UpdateOrderStatus is manager-only: the payment backchannel reports the
// outcome through the dashboard.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid order id")
		return
	}
	order, err := model.GetOrderById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondBadRequest(c, "invalid order payload: %s", err.Error())
		return
	}
	if req.Status != model.OrderStatusPaid && req.Status != model.OrderStatusCancelled {
		helper.RespondBadRequest(c, "invalid order status %d", req.Status)
		return
	}
	if err := order.UpdateStatus(req.Status); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, order)
}
