// Package warehouse is the fulfilment side of the sample mapping in
// examples/store-to-warehouse. Its types exercise read-only members,
// constructors, sets and sequence contracts.
package warehouse

import (
	"iter"
	"slices"
	"time"
)

// Status is the fulfilment state of an order.
type Status int

const (
	StatusUnknown Status = iota
	StatusAwaitingPayment
	StatusReady
	StatusDispatched
	StatusVoid
)

// Address is a delivery address.
type Address struct {
	Street  string
	City    string
	Country string
}

// Customer is the recipient of a shipment. The id is fixed at construction
// and the email can only be read back.
type Customer struct {
	id      int64
	email   string
	Name    string
	Address *Address
}

// NewCustomer returns a customer with the given identity.
func NewCustomer(id int64, email string) *Customer {
	return &Customer{id: id, email: email}
}

// Email returns the contact address.
func (c *Customer) Email() string {
	return c.email
}

// Line is one picking line.
type Line struct {
	SKU       string
	Quantity  int
	UnitPrice int64
}

// Order is a fulfilment order.
type Order struct {
	ID        int64
	Status    Status
	Customer  *Customer
	Lines     []Line
	Tags      map[string]struct{}
	Totals    map[string]int64
	OrderedAt time.Time
}

// Manifest lists the lines of a shipment without committing to storage.
type Manifest struct {
	OrderID int64
	Lines   iter.Seq[Line]
}

// NewManifest builds the manifest of o.
func NewManifest(o *Order) *Manifest {
	return &Manifest{OrderID: o.ID, Lines: slices.Values(o.Lines)}
}
