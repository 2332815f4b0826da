package domain

import "time"

// Order lifecycle states.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodGateway        = "online-gateway"
	PaymentMethodCashOnDelivery = "cod"
)

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// ValidOrderStatus reports whether s is one of the defined lifecycle states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot created at checkout. Only status, payment and
// delivery fields change afterwards.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"-"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      int64           `json:"itemsPrice"`
	TaxPrice        int64           `json:"taxPrice"`
	ShippingPrice   int64           `json:"shippingPrice"`
	TotalPrice      int64           `json:"totalPrice"`
	Status          string          `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a line copied from the cart and live product at checkout.
type OrderItem struct {
	ID        string `json:"id,omitempty"`
	OrderID   string `json:"-"`
	ProductID string `json:"product"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image,omitempty"`
}

// ShippingAddress is the address snapshot embedded in an order.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Country  string `json:"country"`
}

// PaymentResult stores the gateway confirmation for audit.
type PaymentResult struct {
	PaymentID      string `json:"id"`
	Status         string `json:"status"`
	GatewayOrderID string `json:"gatewayOrderId"`
	Signature      string `json:"signature"`
	UpdateTime     string `json:"updateTime"`
}
