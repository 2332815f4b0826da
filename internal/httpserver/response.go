package httpserver

import (
	"errors"
	"log"
	"net/http"

	"storefront/internal/domain"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
	"github.com/gin-gonic/gin"
)

const loggerCtxKey = "logger"

func requestLogger(c *gin.Context) *log.Logger {
	if v, ok := c.Get(loggerCtxKey); ok {
		if l, ok := v.(*log.Logger); ok {
			return l
		}
	}
	return nil
}

func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// writeError maps domain and service errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	var gwErr *domain.GatewayError

	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Error())
	case errors.As(err, &stockErr):
		fail(c, http.StatusConflict, stockErr.Error())
	case errors.As(err, &gwErr):
		fail(c, http.StatusBadGateway, "payment gateway unavailable")
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		fail(c, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrNotAuthenticated):
		fail(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrUnauthorized):
		fail(c, http.StatusForbidden, "not allowed")
	case errors.Is(err, domain.ErrEmptyCart):
		fail(c, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, domain.ErrInvalidAddress):
		fail(c, http.StatusBadRequest, "invalid shipping address")
	case errors.Is(err, domain.ErrInvalidTransition):
		fail(c, http.StatusConflict, "order status does not allow this change")
	case errors.Is(err, domain.ErrInvalidSignature):
		fail(c, http.StatusBadRequest, "payment verification failed")
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, usersvc.ErrEmailTaken):
		fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, usersvc.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, productsvc.ErrReviewNotAllowed):
		fail(c, http.StatusForbidden, err.Error())
	default:
		// The client gets a generic message; the detail goes to the log.
		if l := requestLogger(c); l != nil {
			l.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
