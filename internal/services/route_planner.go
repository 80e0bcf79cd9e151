package services

import (
	"context"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/store"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// RoutePlanner loads trucks with a greedy nearest-neighbor rule and keeps each
// manifest in nearest-neighbor order from the hub.
//
// Each step takes the candidate closest to the manifest tail; earlier
// choices are never revisited.
type RoutePlanner struct {
	store    *store.PackageStore
	resolver *ConstraintResolver
	provider ports.DistanceProvider
	hub      string
	log      *logrus.Entry
}

func NewRoutePlanner(
	s *store.PackageStore,
	resolver *ConstraintResolver,
	provider ports.DistanceProvider,
	hub string,
) (*RoutePlanner, error) {
	if s == nil || resolver == nil || provider == nil {
		return nil, errors.New("new route planner: store, resolver and provider are required")
	}
	if hub == "" {
		return nil, errors.New("new route planner: hub must be non-empty")
	}
	return &RoutePlanner{
		store:    s,
		resolver: resolver,
		provider: provider,
		hub:      hub,
		log:      logrus.WithField("module", "planner"),
	}, nil
}

// AssignPackages fills truck from the eligible packages until it is full or
// nothing eligible fits. Returns the number of packages assigned.
//
// A truck away from the hub is left untouched.
func (p *RoutePlanner) AssignPackages(ctx context.Context, truck *domain.Truck) (assigned int, err error) {
	defer obs.Time(ctx, "planner.AssignPackages")(&err)

	if truck == nil {
		return 0, errors.New("assign packages: truck must be non-nil")
	}

	for truck.AtHub && !truck.IsFull() {
		candidates := p.candidates(truck)
		if len(candidates) == 0 {
			break
		}

		from, err := p.referenceAddress(truck)
		if err != nil {
			return assigned, fmt.Errorf("assign packages: truck %d: %w", truck.TruckID, err)
		}

		next, _, miles, err := NearestPackage(ctx, p.provider, from, candidates)
		if err != nil {
			return assigned, fmt.Errorf("assign packages: truck %d: %w", truck.TruckID, err)
		}

		n, err := p.assign(truck, next)
		assigned += n
		if err != nil {
			return assigned, fmt.Errorf("assign packages: truck %d: %w", truck.TruckID, err)
		}

		p.log.WithFields(logrus.Fields{
			"truck":   truck.TruckID,
			"package": next.PackageID,
			"from":    from,
			"miles":   miles,
			"loaded":  len(truck.Manifest),
		}).Debug("package assigned")

		if err := p.SortManifest(ctx, truck); err != nil {
			return assigned, fmt.Errorf("assign packages: %w", err)
		}
	}

	return assigned, nil
}

// Eligible packages whose unassigned group still fits on the truck, in slot order.
func (p *RoutePlanner) candidates(truck *domain.Truck) []*domain.Package {
	eligible := p.resolver.EligiblePackages(truck.TruckID, truck.Clock)
	return lo.Filter(eligible, func(pkg *domain.Package, _ int) bool {
		return len(p.resolver.unassignedGroup(pkg)) <= truck.Remaining()
	})
}

// Tail of the sorted manifest, or the hub for an empty one.
func (p *RoutePlanner) referenceAddress(truck *domain.Truck) (string, error) {
	id, ok := truck.Tail()
	if !ok {
		return p.hub, nil
	}
	tail, err := p.store.Get(id)
	if err != nil {
		return "", fmt.Errorf("reference address: %w", err)
	}
	return tail.Destination, nil
}

// Assign pkg and every unassigned member of its group, pkg first.
// Candidates are ranked by their listed address; a pending correction is
// applied only once the package is on the truck.
func (p *RoutePlanner) assign(truck *domain.Truck, pkg *domain.Package) (int, error) {
	group := p.resolver.unassignedGroup(pkg)
	if len(group) > truck.Remaining() {
		return 0, fmt.Errorf("group of package %d needs %d slots, truck %d has %d: %w",
			pkg.PackageID, len(group), truck.TruckID, truck.Remaining(), domain.ErrCapacityExceeded)
	}

	if err := truck.Assign(pkg); err != nil {
		return 0, err
	}
	p.applyCorrection(pkg)
	n := 1

	for _, member := range group {
		if member.PackageID == pkg.PackageID {
			continue
		}
		if err := truck.Assign(member); err != nil {
			return n, fmt.Errorf("absorb group member %d: %w", member.PackageID, err)
		}
		p.applyCorrection(member)
		n++
	}
	return n, nil
}

func (p *RoutePlanner) applyCorrection(pkg *domain.Package) {
	if pkg.ApplyCorrection() {
		p.log.WithFields(logrus.Fields{
			"package": pkg.PackageID,
			"address": pkg.Destination,
		}).Info("address corrected")
	}
}

// SortManifest re-derives the manifest order by nearest neighbor from the hub.
// Equal distances keep the current manifest order.
func (p *RoutePlanner) SortManifest(ctx context.Context, truck *domain.Truck) error {
	if len(truck.Manifest) < 2 {
		return nil
	}

	pkgs := make([]*domain.Package, 0, len(truck.Manifest))
	for _, id := range truck.Manifest {
		pkg, err := p.store.Get(id)
		if err != nil {
			return fmt.Errorf("sort manifest: truck %d: %w", truck.TruckID, err)
		}
		pkgs = append(pkgs, pkg)
	}

	ordered, err := NearestNeighborOrder(ctx, p.provider, p.hub, pkgs)
	if err != nil {
		return fmt.Errorf("sort manifest: truck %d: %w", truck.TruckID, err)
	}

	ids := lo.Map(ordered, func(pkg *domain.Package, _ int) int { return pkg.PackageID })
	if err := truck.Reorder(ids); err != nil {
		return fmt.Errorf("sort manifest: %w", err)
	}
	return nil
}
