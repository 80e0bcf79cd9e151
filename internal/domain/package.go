package domain

import (
	"fmt"
	"time"
)

type Status int

const (
	StatusAtHub Status = iota
	StatusEnRoute
	StatusDelivered
)

func (s Status) String() string {
	switch s {
	case StatusAtHub:
		return "At the hub"
	case StatusEnRoute:
		return "En route"
	case StatusDelivered:
		return "Delivered"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Represents a single delivery unit handled by the system.
// A Package has a unique identifier and a single destination address.
// Delivery timestamps are populated during simulation once the package
// has been assigned to a truck and the truck has left the hub.
type Package struct {
	PackageID   int
	Destination string
	City        string
	State       string
	Zip         string
	Deadline    time.Duration
	Mass        float64
	Notes       string
	Constraint  Constraint
	Status      Status
	TruckID     int
	LoadedAt    *time.Duration
	DeliveredAt *time.Duration
}

func (p *Package) IsAssigned() bool { return p.TruckID != 0 }

func (p *Package) Address() Address {
	return Address{Street: p.Destination, City: p.City, State: p.State, Zip: p.Zip}
}

// Replace the destination with the corrected address, if the package carries one.
// Returns true when the destination changed.
func (p *Package) ApplyCorrection() bool {
	if p.Constraint.Kind != ConstraintAddressCorrection || p.Constraint.Address == nil {
		return false
	}
	a := *p.Constraint.Address
	if p.Address() == a {
		return false
	}
	p.Destination = a.Street
	p.City = a.City
	p.State = a.State
	p.Zip = a.Zip
	return true
}

// Derive the status the package had at wall-clock offset t.
func (p *Package) StatusAt(t time.Duration) Status {
	if p.LoadedAt == nil || *p.LoadedAt > t {
		return StatusAtHub
	}
	if p.DeliveredAt == nil || *p.DeliveredAt > t {
		return StatusEnRoute
	}
	return StatusDelivered
}

// Report whether the package was delivered no later than its deadline.
func (p *Package) OnTime() bool {
	return p.DeliveredAt != nil && *p.DeliveredAt <= p.Deadline
}

func (p *Package) markEnRoute(at time.Duration) {
	if p.LoadedAt != nil {
		return
	}
	t := at
	p.LoadedAt = &t
	p.Status = StatusEnRoute
}

func (p *Package) markDelivered(at time.Duration) {
	p.markEnRoute(at)
	t := at
	p.DeliveredAt = &t
	p.Status = StatusDelivered
}
