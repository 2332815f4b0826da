package httpserver

import (
	"net/http"

	addresssvc "storefront/internal/service/address"
	"github.com/gin-gonic/gin"
)

func createAddressHandler(addresses AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req addresssvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		a, err := addresses.Create(c.Request.Context(), u.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusCreated, gin.H{"address": a})
	}
}

func listAddressesHandler(addresses AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		out, err := addresses.List(c.Request.Context(), u.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"addresses": out})
	}
}

func deleteAddressHandler(addresses AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if err := addresses.Delete(c.Request.Context(), u.ID, c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "address removed"})
	}
}
