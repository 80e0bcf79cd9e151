package domain

import (
	"fmt"
	"slices"
	"time"
)

// Cumulative mileage of a truck at a point on its clock.
type MileageSample struct {
	Miles float64
	At    time.Duration
}

// Delivery truck aggregate holding a manifest of package ids, a simulated
// clock and an odometer. A package id appears in at most one manifest, ever.
type Truck struct {
	TruckID       int
	Capacity      int
	SpeedMPH      float64
	StartLocation string
	Clock         time.Duration
	AtHub         bool
	Mileage       float64
	Log           []MileageSample
	Manifest      []int
	Driver        *Driver
	Trips         []RoutePlan
}

func NewTruck(id int, capacity int, speedMPH float64, hub string, departAt time.Duration) *Truck {
	return &Truck{
		TruckID:       id,
		Capacity:      capacity,
		SpeedMPH:      speedMPH,
		StartLocation: hub,
		Clock:         departAt,
		AtHub:         true,
	}
}

func (t *Truck) IsFull() bool { return len(t.Manifest) >= t.Capacity }

func (t *Truck) Remaining() int { return t.Capacity - len(t.Manifest) }

// Return the last package id on the manifest.
func (t *Truck) Tail() (int, bool) {
	if len(t.Manifest) == 0 {
		return 0, false
	}
	return t.Manifest[len(t.Manifest)-1], true
}

// Assign a package to the truck permanently and append it to the manifest.
func (t *Truck) Assign(pkg *Package) error {
	if pkg.IsAssigned() {
		return fmt.Errorf("assign package %d to truck %d: held by truck %d: %w",
			pkg.PackageID, t.TruckID, pkg.TruckID, ErrAlreadyAssigned)
	}
	if t.IsFull() {
		return fmt.Errorf("assign package %d: truck %d is at full capacity (capacity=%d): %w",
			pkg.PackageID, t.TruckID, t.Capacity, ErrCapacityExceeded)
	}
	t.Manifest = append(t.Manifest, pkg.PackageID)
	pkg.TruckID = t.TruckID
	return nil
}

// Replace the manifest order. The new order must hold exactly the same ids.
func (t *Truck) Reorder(order []int) error {
	if len(order) != len(t.Manifest) {
		return fmt.Errorf("reorder truck %d: got %d ids, manifest has %d", t.TruckID, len(order), len(t.Manifest))
	}
	a := slices.Clone(order)
	b := slices.Clone(t.Manifest)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		return fmt.Errorf("reorder truck %d: ids differ from manifest", t.TruckID)
	}
	t.Manifest = slices.Clone(order)
	return nil
}

// Mark every loaded package en route at the truck's current clock.
func (t *Truck) Dispatch(pkgs []*Package) {
	for _, p := range pkgs {
		p.markEnRoute(t.Clock)
	}
}

// Drive miles to the package destination and hand it over.
func (t *Truck) Deliver(pkg *Package, miles float64) error {
	i := slices.Index(t.Manifest, pkg.PackageID)
	if i < 0 {
		return fmt.Errorf("deliver package %d: not on truck %d: %w", pkg.PackageID, t.TruckID, ErrNotFound)
	}
	t.Manifest = slices.Delete(t.Manifest, i, i+1)
	t.AtHub = false
	t.travel(miles)
	pkg.markDelivered(t.Clock)
	return nil
}

// Drive back to the hub after the manifest is exhausted.
func (t *Truck) ReturnToHub(miles float64) {
	t.travel(miles)
	t.AtHub = true
}

// Idle at the hub until the given clock value. Earlier values are ignored.
func (t *Truck) WaitUntil(at time.Duration) {
	if at > t.Clock {
		t.Clock = at
	}
}

func (t *Truck) travel(miles float64) {
	t.Mileage += miles
	if t.SpeedMPH > 0 {
		t.Clock += time.Duration(miles / t.SpeedMPH * float64(time.Hour))
	}
	t.Log = append(t.Log, MileageSample{Miles: t.Mileage, At: t.Clock})
}

// Return the cumulative mileage of the latest sample at or before at.
func (t *Truck) MileageAt(at time.Duration) float64 {
	for i := len(t.Log) - 1; i >= 0; i-- {
		if t.Log[i].At <= at {
			return t.Log[i].Miles
		}
	}
	return 0
}
