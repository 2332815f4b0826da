package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		out, err := carts.AddItem(c.Request.Context(), u.ID, req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"cart": out})
	}
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		out, err := carts.Get(c.Request.Context(), u.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"cart": out})
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		out, err := carts.UpdateItem(c.Request.Context(), u.ID, c.Param("itemId"), req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"cart": out})
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		out, err := carts.RemoveItem(c.Request.Context(), u.ID, c.Param("itemId"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"cart": out})
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if err := carts.Clear(c.Request.Context(), u.ID); err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
