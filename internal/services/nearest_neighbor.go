package services

import (
	"context"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/ports"
	"slices"
)

// distancesFrom returns the distance from origin to every destination.
// Prefer batched distance lookups when supported.
func distancesFrom(
	ctx context.Context,
	provider ports.DistanceProvider,
	origin string,
	destinations []string,
) (map[string]float64, error) {
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		results, err := mp.GetDistances(ctx, origin, destinations)
		if err != nil {
			return nil, fmt.Errorf("get distances matrix from %q: %w", origin, err)
		}
		for _, d := range destinations {
			if _, ok := results[d]; !ok {
				return nil, fmt.Errorf("missing distance result from %q to %q: %w", origin, d, domain.ErrNotFound)
			}
		}
		return results, nil
	}

	results := make(map[string]float64, len(destinations))
	for _, d := range destinations {
		if _, seen := results[d]; seen {
			continue
		}
		r, err := provider.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, fmt.Errorf("get distance from %q to %q: %w", origin, d, err)
		}
		results[d] = r
	}
	return results, nil
}

// NearestPackage selects the package whose destination is closest to from.
//
// Ties keep the first package in pkgs order (strict less-than), so callers
// control tie-breaking through the order they pass in. Returns the package,
// its index in pkgs and its distance.
func NearestPackage(
	ctx context.Context,
	provider ports.DistanceProvider,
	from string,
	pkgs []*domain.Package,
) (*domain.Package, int, float64, error) {
	if len(pkgs) == 0 {
		return nil, -1, 0, errors.New("nearest package: candidate list is empty")
	}

	destinations := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		destinations = append(destinations, p.Destination)
	}

	dist, err := distancesFrom(ctx, provider, from, destinations)
	if err != nil {
		return nil, -1, 0, fmt.Errorf("nearest package: %w", err)
	}

	best := -1
	bestMiles := 0.0
	// Greedy step: minimum distance wins, earlier candidates win ties.
	for i, p := range pkgs {
		d := dist[p.Destination]
		if best < 0 || d < bestMiles {
			best = i
			bestMiles = d
		}
	}

	return pkgs[best], best, bestMiles, nil
}

// NearestNeighborOrder orders pkgs by repeated nearest-neighbor selection
// starting at start. The input slice is not modified.
func NearestNeighborOrder(
	ctx context.Context,
	provider ports.DistanceProvider,
	start string,
	pkgs []*domain.Package,
) ([]*domain.Package, error) {
	if start == "" {
		return nil, errors.New("nearest neighbor order: start must be non-empty")
	}

	remaining := slices.Clone(pkgs)
	ordered := make([]*domain.Package, 0, len(pkgs))
	current := start

	for len(remaining) > 0 {
		next, idx, _, err := NearestPackage(ctx, provider, current, remaining)
		if err != nil {
			return nil, fmt.Errorf("nearest neighbor order: %w", err)
		}
		ordered = append(ordered, next)
		current = next.Destination
		remaining = slices.Delete(remaining, idx, idx+1)
	}

	return ordered, nil
}
