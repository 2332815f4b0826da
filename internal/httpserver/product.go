package httpserver

import (
	"net/http"
	"strconv"

	productrepo "storefront/internal/repository/product"
	productsvc "storefront/internal/service/product"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"products": out})
	}
}

func getProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"product": p})
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	MinPrice *int64 `json:"minPrice"`
	MaxPrice *int64 `json:"maxPrice"`
	SortBy   string `json:"sortBy"`
}

func searchProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		out, err := products.Search(c.Request.Context(), productrepo.SearchFilter{
			Query:    req.Query,
			Category: req.Category,
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
			SortBy:   req.SortBy,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"products": out, "count": len(out)})
	}
}

type checkStockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func checkStockHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}
		inStock, available, err := products.CheckStock(c.Request.Context(), req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"inStock": inStock, "available": available})
	}
}

func suggestionsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		out, err := products.Suggest(c.Request.Context(), c.Query("q"), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"suggestions": out})
	}
}

func productCountHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := products.Count(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"count": count})
	}
}

func lowStockHandler(products ProductService, defaultThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold, _ := strconv.Atoi(c.Query("threshold"))
		if threshold < 1 {
			threshold = defaultThreshold
		}
		out, err := products.LowStock(c.Request.Context(), threshold)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"products": out, "threshold": threshold})
	}
}

func createProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := products.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusCreated, gin.H{"product": p})
	}
}

func bulkCreateProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []productsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		count, err := products.BulkCreate(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusCreated, gin.H{"created": count})
	}
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Brand       *string `json:"brand"`
	Stock       *int    `json:"stock"`
	ImageURL    *string `json:"image"`
}

func updateProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := products.Update(c.Request.Context(), c.Param("id"), productrepo.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Brand:       req.Brand,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"product": p})
	}
}

func deleteProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "product removed"})
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func reviewProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := products.AddReview(c.Request.Context(), u.ID, u.Name, c.Param("id"), req.Rating, req.Comment)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"product": p})
	}
}
