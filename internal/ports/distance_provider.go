package ports

import "context"

// Contract for retrieving travel distance between two addresses.
// Distances are symmetric, non-negative and zero for identical addresses.
type DistanceProvider interface {
	// Return the distance in miles between two street addresses.
	GetDistance(ctx context.Context, origin string, destination string) (float64, error)
}
