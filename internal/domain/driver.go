package domain

// A driver operates at most one truck at a time.
type Driver struct {
	DriverID int
	Truck    *Truck
}

// Take the first truck that has no driver. Returns false when none is free.
func (d *Driver) AssignTruck(trucks []*Truck) bool {
	for _, t := range trucks {
		if t.Driver == nil {
			t.Driver = d
			d.Truck = t
			return true
		}
	}
	return false
}

func (d *Driver) ReleaseTruck() {
	if d.Truck == nil {
		return
	}
	d.Truck.Driver = nil
	d.Truck = nil
}

// Pair min(trucks, drivers) trucks with drivers 1:1. Trucks without a driver
// stay in the yard and are not returned.
func NewFleet(trucks []*Truck, drivers int) ([]*Truck, []*Driver) {
	n := min(len(trucks), drivers)
	active := trucks[:n]
	ds := make([]*Driver, 0, n)
	for i := 1; i <= n; i++ {
		d := &Driver{DriverID: i}
		d.AssignTruck(active)
		ds = append(ds, d)
	}
	return active, ds
}
