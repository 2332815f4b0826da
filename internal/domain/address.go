package domain

import "time"

// Address is a shipping address owned by one user. Orders copy its fields at
// creation time, so deleting or editing an address never touches past orders.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}
