package services

import (
	"context"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/store"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DeliveryResult is the state left after a completed simulation.
// It is read-only from here on.
type DeliveryResult struct {
	RunID   string
	Store   *store.PackageStore
	Trucks  []*domain.Truck
	Drivers []*domain.Driver
	Groups  [][]int
}

// Plans returns every executed trip, truck by truck.
func (r *DeliveryResult) Plans() []domain.RoutePlan {
	var out []domain.RoutePlan
	for _, t := range r.Trucks {
		out = append(out, t.Trips...)
	}
	return out
}

// PlanDeliveries loads pkgs into a store, validates their constraints against
// the fleet and distance data, and simulates the day to completion.
func PlanDeliveries(
	ctx context.Context,
	cfg config.Config,
	pkgs []*domain.Package,
	provider ports.DistanceProvider,
) (_ *DeliveryResult, err error) {
	defer obs.Time(ctx, "services.PlanDeliveries")(&err)

	if provider == nil {
		return nil, errors.New("plan deliveries: distance provider is nil")
	}

	if err := attachCorrections(cfg, pkgs); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	if err := checkAddresses(ctx, provider, cfg.Fleet.Hub, pkgs); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	s := store.New(cfg.StoreCapacity)
	for _, pkg := range pkgs {
		if _, dup := s.Lookup(pkg.PackageID); dup {
			return nil, fmt.Errorf("plan deliveries: duplicate package_id=%d: %w", pkg.PackageID, domain.ErrMalformedInput)
		}
		if err := s.Insert(pkg); err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
	}

	trucks, drivers := BuildFleet(cfg, pkgs)

	resolver, err := NewConstraintResolver(s, trucks)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	planner, err := NewRoutePlanner(s, resolver, provider, cfg.Fleet.Hub)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	sim, err := NewDeliverySimulator(s, resolver, planner, provider, trucks)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	runID := uuid.NewString()
	logrus.WithField("module", "services").WithFields(logrus.Fields{
		"run_id":   runID,
		"packages": s.Len(),
		"trucks":   len(trucks),
		"groups":   len(resolver.AssociatedGroups()),
	}).Info("simulation started")

	if err := sim.Run(ctx); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	return &DeliveryResult{
		RunID:   runID,
		Store:   s,
		Trucks:  trucks,
		Drivers: drivers,
		Groups:  resolver.AssociatedGroups(),
	}, nil
}

// Fill in the corrected address of every "wrong address" package from cfg.
// A time written in the note wins over the configured one.
func attachCorrections(cfg config.Config, pkgs []*domain.Package) error {
	for _, pkg := range pkgs {
		if pkg.Constraint.Kind != domain.ConstraintAddressCorrection {
			continue
		}
		addr, at, ok := cfg.CorrectionFor(pkg.PackageID)
		if !ok {
			return fmt.Errorf("package %d has a wrong address and no configured correction: %w",
				pkg.PackageID, domain.ErrConstraintViolation)
		}
		pkg.Constraint.Address = &addr
		if pkg.Constraint.Until == 0 {
			pkg.Constraint.Until = at
		}
	}
	return nil
}

// Every address a truck may drive to must be known to the distance provider.
func checkAddresses(ctx context.Context, provider ports.DistanceProvider, hub string, pkgs []*domain.Package) error {
	seen := make(map[string]struct{})
	check := func(id int, address string) error {
		a := strings.TrimSpace(address)
		if a == "" {
			return fmt.Errorf("package_id=%d has empty destination: %w", id, domain.ErrMalformedInput)
		}
		if _, ok := seen[a]; ok {
			return nil
		}
		seen[a] = struct{}{}
		if _, err := provider.GetDistance(ctx, hub, a); err != nil {
			return fmt.Errorf("package_id=%d: unknown destination %q: %w", id, a, err)
		}
		return nil
	}

	for _, pkg := range pkgs {
		if err := check(pkg.PackageID, pkg.Destination); err != nil {
			return err
		}
		// Selection ranks the listed address; the truck drives to the corrected one.
		if a := pkg.Constraint.Address; a != nil {
			if err := check(pkg.PackageID, a.Street); err != nil {
				return err
			}
		}
	}
	return nil
}
