package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
	productsvc "storefront/internal/service/product"
)

func TestListProductsHandler(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductService{
		products: []domain.Product{{ID: "p1", Name: "Keyboard", Price: 500}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"name":"Keyboard"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetProductHandler_NotFound(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSearchProductsHandler(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductService{
		products: []domain.Product{{ID: "p1", Name: "Keyboard"}},
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(`{"query":"key","sortBy":"price-low"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateProductHandler_RequiresAdmin(t *testing.T) {
	router := testRouter(Deps{UserSvc: customerStub()})

	req := authedRequest(http.MethodPost, "/api/products/create", `{"name":"Keyboard","price":500,"stock":5}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestReviewProductHandler_NotDelivered(t *testing.T) {
	router := testRouter(Deps{
		UserSvc:    customerStub(),
		ProductSvc: &stubProductService{err: productsvc.ErrReviewNotAllowed},
	})

	req := authedRequest(http.MethodPost, "/api/products/review/p1", `{"rating":4,"comment":"solid"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCheckStockHandler(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/products/check-stock", strings.NewReader(`{"productId":"p1","quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"inStock":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetCartHandler_EmptyCart(t *testing.T) {
	router := testRouter(Deps{UserSvc: customerStub()})

	req := authedRequest(http.MethodGet, "/api/cart", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"cartItems":[]`) {
		t.Fatalf("expected empty cart items array: %s", rec.Body.String())
	}
}
