package httpserver

import (
	"context"
	"log"
	"time"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	addresssvc "storefront/internal/service/address"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserService is the slice of the user service the handlers consume.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in usersvc.UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	AccessTTLSeconds() int
}

type AddressService interface {
	Create(ctx context.Context, userID string, in addresssvc.CreateInput) (*domain.Address, error)
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, f productrepo.SearchFilter) ([]domain.Product, error)
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
	CheckStock(ctx context.Context, productID string, quantity int) (bool, int, error)
	Count(ctx context.Context) (int, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	BulkCreate(ctx context.Context, ins []productsvc.CreateInput) (int, error)
	Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, userID, userName, productID string, rating int, comment string) (*domain.Product, error)
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	Create(ctx context.Context, userID string, in ordersvc.CreateInput) (*ordersvc.CreateResult, error)
	VerifyPayment(ctx context.Context, userID, orderID string, in ordersvc.VerifyInput) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, toStatus string) (*domain.Order, error)
	Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]orderrepo.Summary, error)
	Count(ctx context.Context) (int, error)
	TotalRevenue(ctx context.Context) (int64, error)
}

// Deps bundles the services the router needs.
type Deps struct {
	UserSvc    UserService
	AddressSvc AddressService
	ProductSvc ProductService
	CartSvc    CartService
	OrderSvc   OrderService

	// CORSOrigins lists the allowed browser origins.
	CORSOrigins []string
	// LowStockThreshold is the default for the admin low-stock listing.
	LowStockThreshold int
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Set(loggerCtxKey, logger)
		c.Next()
	})

	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	authed := authMiddleware(deps.UserSvc)
	admin := adminMiddleware()

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", registerHandler(deps.UserSvc))
		users.POST("/login", loginHandler(deps.UserSvc))
		users.GET("/profile", authed, profileHandler(deps.UserSvc))
		users.PUT("/profile", authed, updateProfileHandler(deps.UserSvc))
		users.GET("/getallusers", authed, admin, listUsersHandler(deps.UserSvc))
		users.GET("/usercount", authed, admin, userCountHandler(deps.UserSvc))
	}

	addresses := api.Group("/address", authed)
	{
		addresses.POST("", createAddressHandler(deps.AddressSvc))
		addresses.GET("", listAddressesHandler(deps.AddressSvc))
		addresses.DELETE("/:id", deleteAddressHandler(deps.AddressSvc))
	}

	products := api.Group("/products")
	{
		products.GET("", listProductsHandler(deps.ProductSvc))
		products.POST("/search", searchProductsHandler(deps.ProductSvc))
		products.POST("/check-stock", checkStockHandler(deps.ProductSvc))
		products.GET("/suggestions", suggestionsHandler(deps.ProductSvc))
		products.GET("/getproductscount", productCountHandler(deps.ProductSvc))
		products.GET("/low-stock", authed, admin, lowStockHandler(deps.ProductSvc, deps.LowStockThreshold))
		products.POST("/create", authed, admin, createProductHandler(deps.ProductSvc))
		products.POST("/bulkproduct", authed, admin, bulkCreateProductsHandler(deps.ProductSvc))
		products.POST("/review/:id", authed, reviewProductHandler(deps.ProductSvc))
		products.GET("/:id", getProductHandler(deps.ProductSvc))
		products.PUT("/:id", authed, admin, updateProductHandler(deps.ProductSvc))
		products.DELETE("/:id", authed, admin, deleteProductHandler(deps.ProductSvc))
	}

	carts := api.Group("/cart", authed)
	{
		carts.POST("", addCartItemHandler(deps.CartSvc))
		carts.GET("", getCartHandler(deps.CartSvc))
		carts.DELETE("", clearCartHandler(deps.CartSvc))
		carts.PUT("/:itemId", updateCartItemHandler(deps.CartSvc))
		carts.DELETE("/:itemId", removeCartItemHandler(deps.CartSvc))
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("/createorder", createOrderHandler(deps.OrderSvc))
		orders.POST("/verify", verifyPaymentHandler(deps.OrderSvc))
		orders.GET("/myorders", myOrdersHandler(deps.OrderSvc))
		orders.GET("/order/:id", getOrderHandler(deps.OrderSvc))
		orders.PUT("/cancel/:id", cancelOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/status", admin, updateOrderStatusHandler(deps.OrderSvc))
		orders.GET("/getallorders", admin, allOrdersHandler(deps.OrderSvc))
		orders.GET("/ordercount", admin, orderCountHandler(deps.OrderSvc))
		orders.GET("/totalrevenue", admin, totalRevenueHandler(deps.OrderSvc))
	}

	return router
}
