package httpserver

import (
	"context"
	"io"
	"log"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	addresssvc "storefront/internal/service/address"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.UserSvc == nil {
		deps.UserSvc = &stubUserService{}
	}
	if deps.AddressSvc == nil {
		deps.AddressSvc = &stubAddressService{}
	}
	if deps.ProductSvc == nil {
		deps.ProductSvc = &stubProductService{}
	}
	if deps.CartSvc == nil {
		deps.CartSvc = &stubCartService{}
	}
	if deps.OrderSvc == nil {
		deps.OrderSvc = &stubOrderService{}
	}
	if deps.LowStockThreshold == 0 {
		deps.LowStockThreshold = 10
	}
	return buildRouter(logDiscard(), nil, deps)
}

type stubUserService struct {
	user      *domain.User
	tokenUser *domain.User
	loginErr  error
	signupErr error
	lookupErr error
}

func (s *stubUserService) Signup(_ context.Context, _ usersvc.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.user, "access", "refresh", nil
}

func (s *stubUserService) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.tokenUser == nil || token != "valid-token" {
		return nil, usersvc.ErrInvalidToken
	}
	return s.tokenUser, nil
}

func (s *stubUserService) Profile(_ context.Context, _ string) (*domain.User, error) {
	return s.tokenUser, nil
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ string, _ usersvc.UpdateProfileInput) (*domain.User, error) {
	return s.tokenUser, nil
}

func (s *stubUserService) List(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserService) Count(_ context.Context) (int, error) {
	return 0, nil
}

func (s *stubUserService) AccessTTLSeconds() int {
	return 3600
}

type stubAddressService struct {
	address *domain.Address
	err     error
}

func (s *stubAddressService) Create(_ context.Context, _ string, _ addresssvc.CreateInput) (*domain.Address, error) {
	return s.address, s.err
}

func (s *stubAddressService) List(_ context.Context, _ string) ([]domain.Address, error) {
	return nil, s.err
}

func (s *stubAddressService) Delete(_ context.Context, _, _ string) error {
	return s.err
}

type stubProductService struct {
	product  *domain.Product
	products []domain.Product
	err      error
}

func (s *stubProductService) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil {
		return nil, domain.ErrNotFound
	}
	return s.product, nil
}

func (s *stubProductService) Search(_ context.Context, _ productrepo.SearchFilter) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	return []string{}, s.err
}

func (s *stubProductService) CheckStock(_ context.Context, _ string, _ int) (bool, int, error) {
	return true, 5, s.err
}

func (s *stubProductService) Count(_ context.Context) (int, error) {
	return len(s.products), s.err
}

func (s *stubProductService) LowStock(_ context.Context, _ int) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Create(_ context.Context, _ productsvc.CreateInput) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) BulkCreate(_ context.Context, ins []productsvc.CreateInput) (int, error) {
	return len(ins), s.err
}

func (s *stubProductService) Update(_ context.Context, _ string, _ productrepo.UpdateInput) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubProductService) AddReview(_ context.Context, _, _, _ string, _ int, _ string) (*domain.Product, error) {
	return s.product, s.err
}

type stubCartService struct {
	cart *domain.Cart
	err  error
}

func (s *stubCartService) Get(_ context.Context, userID string) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cart == nil {
		return domain.EmptyCart(userID), nil
	}
	return s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, _ string) error {
	return s.err
}

type stubOrderService struct {
	result    *ordersvc.CreateResult
	order     *domain.Order
	createErr error
	verifyErr error
	cancelErr error
	statusErr error
}

func (s *stubOrderService) Create(_ context.Context, _ string, _ ordersvc.CreateInput) (*ordersvc.CreateResult, error) {
	return s.result, s.createErr
}

func (s *stubOrderService) VerifyPayment(_ context.Context, _, _ string, _ ordersvc.VerifyInput) (*domain.Order, error) {
	return s.order, s.verifyErr
}

func (s *stubOrderService) Cancel(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.cancelErr
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.statusErr
}

func (s *stubOrderService) Get(_ context.Context, _ string, _ bool, _ string) (*domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) ListMine(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) ListAll(_ context.Context) ([]orderrepo.Summary, error) {
	return nil, nil
}

func (s *stubOrderService) Count(_ context.Context) (int, error) {
	return 0, nil
}

func (s *stubOrderService) TotalRevenue(_ context.Context) (int64, error) {
	return 0, nil
}
