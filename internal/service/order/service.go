package order

import (
	"context"
	"errors"
	"io"
	"log"
	"math"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	"github.com/google/uuid"
)

type cartGetter interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type addressGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Address, error)
}

type productGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type paymentGateway interface {
	CreateIntent(amountMinor int64, currency, receipt string) (string, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

// Pricing holds the checkout price rules. Tax is applied to the item
// subtotal and rounded to the nearest unit; shipping is free strictly above
// FreeShippingMin and charged at the flat fee otherwise.
type Pricing struct {
	TaxRate         float64
	FreeShippingMin int64
	FlatShippingFee int64
	Currency        string
}

// Service owns the order lifecycle: checkout, payment verification,
// cancellation and fulfilment transitions.
type Service struct {
	orders    orderrepo.Repository
	carts     cartGetter
	addresses addressGetter
	products  productGetter
	gateway   paymentGateway
	pricing   Pricing
	logger    *log.Logger
}

func New(orders orderrepo.Repository, carts cartGetter, addresses addressGetter, products productGetter, gateway paymentGateway, pricing Pricing, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		products:  products,
		gateway:   gateway,
		pricing:   pricing,
		logger:    logger,
	}
}

// CreateInput is the checkout request: which saved address to ship to and
// how the customer pays.
type CreateInput struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

// CreateResult carries the new order plus what the client needs to complete
// an online payment. Amount is in minor currency units.
type CreateResult struct {
	Order          *domain.Order `json:"order"`
	GatewayOrderID string        `json:"gatewayOrderId,omitempty"`
	Amount         int64         `json:"amount,omitempty"`
	Currency       string        `json:"currency,omitempty"`
	Key            string        `json:"key,omitempty"`
}

// Create turns the user's cart into an order. For online payment it opens a
// gateway intent first; stock is only touched once the intent exists, so a
// gateway failure leaves cart and stock untouched.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*CreateResult, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if in.PaymentMethod != domain.PaymentMethodGateway && in.PaymentMethod != domain.PaymentMethodCashOnDelivery {
		return nil, domain.Invalid("unknown payment method")
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	addr, err := s.addresses.GetByID(ctx, in.AddressID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidAddress
		}
		return nil, err
	}
	if addr.UserID != userID {
		return nil, domain.ErrInvalidAddress
	}

	// Prices come from the catalog at checkout time, not from the cart
	// snapshot, so a price change between add-to-cart and checkout is
	// reflected in the order.
	items := make([]domain.OrderItem, 0, len(c.Items))
	var itemsPrice int64
	for _, line := range c.Items {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
		itemsPrice += int64(line.Quantity) * p.Price
	}

	taxPrice := int64(math.Round(float64(itemsPrice) * s.pricing.TaxRate))
	var shippingPrice int64
	if itemsPrice <= s.pricing.FreeShippingMin {
		shippingPrice = s.pricing.FlatShippingFee
	}
	totalPrice := itemsPrice + taxPrice + shippingPrice

	var gatewayOrderID string
	if in.PaymentMethod == domain.PaymentMethodGateway {
		receipt := "rcpt_" + uuid.NewString()
		gatewayOrderID, err = s.gateway.CreateIntent(totalPrice*100, s.pricing.Currency, receipt)
		if err != nil {
			s.logger.Printf("order service: gateway intent failed user_id=%s: %v", userID, err)
			return nil, &domain.GatewayError{Err: err}
		}
	}

	o, err := s.orders.Create(ctx, orderrepo.CreateInput{
		UserID: userID,
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			FullName: addr.FullName,
			Phone:    addr.Phone,
			Street:   addr.Street,
			City:     addr.City,
			State:    addr.State,
			Pincode:  addr.Pincode,
			Country:  addr.Country,
		},
		PaymentMethod:  in.PaymentMethod,
		ItemsPrice:     itemsPrice,
		TaxPrice:       taxPrice,
		ShippingPrice:  shippingPrice,
		TotalPrice:     totalPrice,
		GatewayOrderID: gatewayOrderID,
	})
	if err != nil {
		return nil, err
	}

	res := &CreateResult{Order: o}
	if in.PaymentMethod == domain.PaymentMethodGateway {
		res.GatewayOrderID = gatewayOrderID
		res.Amount = totalPrice * 100
		res.Currency = s.pricing.Currency
		res.Key = s.gateway.KeyID()
	}
	return res, nil
}

// VerifyInput is the payment confirmation the client relays from the
// gateway after the customer pays.
type VerifyInput struct {
	GatewayOrderID string `json:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature"`
}

// VerifyPayment checks the gateway signature and marks the order paid.
// Verifying an already-paid order is a no-op.
func (s *Service) VerifyPayment(ctx context.Context, userID, orderID string, in VerifyInput) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if o.IsPaid {
		return o, nil
	}
	// Only a pending order can become paid. In particular a cancelled order
	// has already had its stock restored, so a late gateway confirmation must
	// not resurrect it.
	if o.Status != domain.OrderStatusPending {
		return nil, domain.ErrInvalidTransition
	}
	gatewayOrderID := in.GatewayOrderID
	if gatewayOrderID == "" && o.PaymentResult != nil {
		gatewayOrderID = o.PaymentResult.GatewayOrderID
	}
	if !s.gateway.VerifySignature(gatewayOrderID, in.PaymentID, in.Signature) {
		s.logger.Printf("order service: signature mismatch order_id=%s payment_id=%s", orderID, in.PaymentID)
		return nil, domain.ErrInvalidSignature
	}
	err = s.orders.MarkPaid(ctx, orderID, domain.PaymentResult{
		PaymentID:      in.PaymentID,
		Status:         "captured",
		GatewayOrderID: gatewayOrderID,
		Signature:      in.Signature,
	})
	if err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// Cancel lets the owner cancel an order that has not started processing.
// Stock for every item is restored in the same transaction.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if o.Status != domain.OrderStatusPending {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.orders.CancelAndRestock(ctx, orderID, domain.OrderStatusPending); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// UpdateStatus applies an admin transition. Cancelling restocks the items.
func (s *Service) UpdateStatus(ctx context.Context, orderID, toStatus string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(toStatus) {
		return nil, domain.Invalid("unknown order status")
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(o.Status, toStatus) {
		return nil, domain.ErrInvalidTransition
	}
	if toStatus == domain.OrderStatusCancelled {
		err = s.orders.CancelAndRestock(ctx, orderID, o.Status)
	} else {
		err = s.orders.SetStatus(ctx, orderID, o.Status, toStatus)
	}
	if err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// Get returns the order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && !isAdmin {
		return nil, domain.ErrUnauthorized
	}
	return o, nil
}

// ListMine returns the user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns summaries of every order (privileged).
func (s *Service) ListAll(ctx context.Context) ([]orderrepo.Summary, error) {
	return s.orders.ListAll(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.orders.Count(ctx)
}

// TotalRevenue sums the total of every paid order.
func (s *Service) TotalRevenue(ctx context.Context) (int64, error) {
	return s.orders.TotalRevenue(ctx)
}
