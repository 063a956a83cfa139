// Package store is the storefront order model. It is the source side of the
// sample mapping in examples/store-to-warehouse.
package store

import (
	"time"
)

// OrderStatus is the lifecycle state of an order as the storefront sees it.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Address is a shipping address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Address  *Address `json:"address,omitempty"`
}

// OrderItem is one product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Order represents a transaction made by a customer.
type Order struct {
	ID        int64            `json:"id"`
	Status    OrderStatus      `json:"status"`
	Customer  *Customer        `json:"customer"`
	Items     []OrderItem      `json:"items"`
	Tags      []string         `json:"tags,omitempty"`
	Totals    map[string]int64 `json:"totals,omitempty"` // by currency, in cents
	OrderedAt time.Time        `json:"ordered_at"`
}
