package domain

import "time"

// Represents a single stop in an executed trip.
// A RouteStop corresponds to arriving at a specific destination at a simulated time,
// and delivering one or more packages associated with that destination.
type RouteStop struct {
	Destination string
	ArriveAt    time.Duration
	PackageIDs  []int
}

// Represents one trip of a truck from the hub and back.
// The simulator appends a RoutePlan per trip; it is reporting data only.
type RoutePlan struct {
	TruckID    int
	DepartAt   time.Duration
	ReturnAt   time.Duration
	Stops      []RouteStop
	TotalMiles float64
}

// Record a delivery, merging it into the previous stop when the truck did not move.
func (r *RoutePlan) AddStop(destination string, at time.Duration, packageID int) {
	if n := len(r.Stops); n > 0 && r.Stops[n-1].Destination == destination {
		r.Stops[n-1].PackageIDs = append(r.Stops[n-1].PackageIDs, packageID)
		return
	}
	r.Stops = append(r.Stops, RouteStop{Destination: destination, ArriveAt: at, PackageIDs: []int{packageID}})
}
