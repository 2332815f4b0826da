package httpserver

import (
	"net/http"

	ordersvc "storefront/internal/service/order"
	"github.com/gin-gonic/gin"
)

func createOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req ordersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := orders.Create(c.Request.Context(), u.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusCreated, gin.H{
			"orderId":        res.Order.ID,
			"order":          res.Order,
			"gatewayOrderId": res.GatewayOrderID,
			"amount":         res.Amount,
			"currency":       res.Currency,
			"key":            res.Key,
		})
	}
}

type verifyPaymentRequest struct {
	OrderID string `json:"orderId"`
	ordersvc.VerifyInput
}

func verifyPaymentHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		o, err := orders.VerifyPayment(c.Request.Context(), u.ID, req.OrderID, req.VerifyInput)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"order": o})
	}
}

func myOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		out, err := orders.ListMine(c.Request.Context(), u.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"orders": out})
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		o, err := orders.Get(c.Request.Context(), u.ID, u.IsAdmin, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"order": o})
	}
}

func cancelOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		o, err := orders.Cancel(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"order": o})
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"order": o})
	}
}

func allOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"orders": out})
	}
}

func orderCountHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := orders.Count(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"count": count})
	}
}

func totalRevenueHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := orders.TotalRevenue(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"totalRevenue": total})
	}
}
