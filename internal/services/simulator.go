package services

import (
	"context"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/store"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DeliverySimulator drives trucks through delivery passes until every package
// carries a delivered timestamp.
//
// Trucks are processed sequentially in fleet order. A pass runs one trip per
// truck holding packages, then replans every truck at the hub.
type DeliverySimulator struct {
	store    *store.PackageStore
	resolver *ConstraintResolver
	planner  *RoutePlanner
	provider ports.DistanceProvider
	trucks   []*domain.Truck
	log      *logrus.Entry
}

func NewDeliverySimulator(
	s *store.PackageStore,
	resolver *ConstraintResolver,
	planner *RoutePlanner,
	provider ports.DistanceProvider,
	trucks []*domain.Truck,
) (*DeliverySimulator, error) {
	if s == nil || resolver == nil || planner == nil || provider == nil {
		return nil, errors.New("new delivery simulator: store, resolver, planner and provider are required")
	}
	if len(trucks) == 0 {
		return nil, errors.New("new delivery simulator: truck list must not be empty")
	}
	return &DeliverySimulator{
		store:    s,
		resolver: resolver,
		planner:  planner,
		provider: provider,
		trucks:   trucks,
		log:      logrus.WithField("module", "simulator"),
	}, nil
}

// Run plans every truck, then runs delivery passes until all packages are
// delivered. A state where no truck can make progress is ErrNoProgress.
// Cancellation is checked between passes.
func (s *DeliverySimulator) Run(ctx context.Context) (err error) {
	defer obs.Time(ctx, "simulator.Run")(&err)

	if _, err := s.replan(ctx); err != nil {
		return fmt.Errorf("run simulation: initial planning: %w", err)
	}

	for pass := 1; !s.AllDelivered(); pass++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run simulation: pass %d: %w", pass, err)
		}

		delivered := 0
		for _, truck := range s.trucks {
			n, err := s.DeliverTrip(ctx, truck)
			if err != nil {
				return fmt.Errorf("run simulation: pass %d: %w", pass, err)
			}
			delivered += n
		}

		assigned, err := s.replan(ctx)
		if err != nil {
			return fmt.Errorf("run simulation: pass %d: replan: %w", pass, err)
		}

		if delivered+assigned == 0 {
			n, waited, err := s.waitForArrivals(ctx)
			if err != nil {
				return fmt.Errorf("run simulation: pass %d: %w", pass, err)
			}
			if n == 0 && !waited {
				return fmt.Errorf("run simulation: pass %d: packages %v cannot be delivered: %w",
					pass, s.stranded(), domain.ErrNoProgress)
			}
			assigned += n
		}

		s.log.WithFields(logrus.Fields{
			"pass":      pass,
			"delivered": delivered,
			"assigned":  assigned,
		}).Debug("pass finished")
	}

	s.log.WithFields(logrus.Fields{
		"packages": s.store.Len(),
		"miles":    s.TotalMileage(),
	}).Info("all packages delivered")

	return nil
}

// DeliverTrip drives the truck's manifest in order and returns it to the hub.
// An empty manifest is not a trip; the truck stays at the hub.
func (s *DeliverySimulator) DeliverTrip(ctx context.Context, truck *domain.Truck) (int, error) {
	if len(truck.Manifest) == 0 {
		return 0, nil
	}

	// Deliver pops manifest entries, so walk a snapshot.
	ids := slices.Clone(truck.Manifest)
	pkgs := make([]*domain.Package, 0, len(ids))
	for _, id := range ids {
		pkg, err := s.store.Get(id)
		if err != nil {
			return 0, fmt.Errorf("deliver trip: truck %d: %w", truck.TruckID, err)
		}
		pkgs = append(pkgs, pkg)
	}

	truck.Dispatch(pkgs)
	plan := domain.RoutePlan{TruckID: truck.TruckID, DepartAt: truck.Clock}
	startMiles := truck.Mileage
	current := truck.StartLocation

	for _, pkg := range pkgs {
		miles, err := s.provider.GetDistance(ctx, current, pkg.Destination)
		if err != nil {
			return 0, fmt.Errorf("deliver trip: truck %d: package %d: %w", truck.TruckID, pkg.PackageID, err)
		}
		if err := truck.Deliver(pkg, miles); err != nil {
			return 0, fmt.Errorf("deliver trip: %w", err)
		}
		plan.AddStop(pkg.Destination, truck.Clock, pkg.PackageID)

		if !pkg.OnTime() {
			s.log.WithFields(logrus.Fields{
				"truck":     truck.TruckID,
				"package":   pkg.PackageID,
				"deadline":  domain.FormatClock(pkg.Deadline),
				"delivered": domain.FormatClock(truck.Clock),
			}).Warn("package delivered after deadline")
		}
		current = pkg.Destination
	}

	back, err := s.provider.GetDistance(ctx, current, truck.StartLocation)
	if err != nil {
		return 0, fmt.Errorf("deliver trip: truck %d: return leg: %w", truck.TruckID, err)
	}
	truck.ReturnToHub(back)

	plan.ReturnAt = truck.Clock
	plan.TotalMiles = truck.Mileage - startMiles
	truck.Trips = append(truck.Trips, plan)

	s.log.WithFields(logrus.Fields{
		"truck":    truck.TruckID,
		"packages": len(pkgs),
		"depart":   domain.FormatClock(plan.DepartAt),
		"return":   domain.FormatClock(plan.ReturnAt),
		"miles":    plan.TotalMiles,
	}).Info("trip finished")

	return len(pkgs), nil
}

func (s *DeliverySimulator) replan(ctx context.Context) (int, error) {
	total := 0
	for _, truck := range s.trucks {
		n, err := s.planner.AssignPackages(ctx, truck)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Idle hub trucks advance to the next pending availability time and replan.
// Reports whether any clock moved.
func (s *DeliverySimulator) waitForArrivals(ctx context.Context) (int, bool, error) {
	total := 0
	waited := false
	for _, truck := range s.trucks {
		if !truck.AtHub || len(truck.Manifest) > 0 {
			continue
		}
		next, ok := s.nextAvailability(truck.Clock)
		if !ok {
			continue
		}

		s.log.WithFields(logrus.Fields{
			"truck": truck.TruckID,
			"from":  domain.FormatClock(truck.Clock),
			"until": domain.FormatClock(next),
		}).Info("truck waiting at hub")

		truck.WaitUntil(next)
		waited = true

		n, err := s.planner.AssignPackages(ctx, truck)
		total += n
		if err != nil {
			return total, waited, fmt.Errorf("wait for arrivals: %w", err)
		}
	}
	return total, waited, nil
}

// Earliest availability time after now among unassigned packages.
func (s *DeliverySimulator) nextAvailability(now time.Duration) (time.Duration, bool) {
	var (
		next  time.Duration
		found bool
	)
	for _, pkg := range s.store.Packages() {
		if pkg.IsAssigned() {
			continue
		}
		at, ok := EarliestAvailable(pkg)
		if !ok || at <= now {
			continue
		}
		if !found || at < next {
			next = at
			found = true
		}
	}
	return next, found
}

func (s *DeliverySimulator) stranded() []int {
	return lo.FilterMap(s.store.Packages(), func(pkg *domain.Package, _ int) (int, bool) {
		return pkg.PackageID, pkg.DeliveredAt == nil
	})
}

func (s *DeliverySimulator) AllDelivered() bool {
	return lo.EveryBy(s.store.Packages(), func(pkg *domain.Package) bool {
		return pkg.DeliveredAt != nil
	})
}

func (s *DeliverySimulator) TotalMileage() float64 {
	return lo.SumBy(s.trucks, func(t *domain.Truck) float64 { return t.Mileage })
}

func (s *DeliverySimulator) Trucks() []*domain.Truck { return s.trucks }
