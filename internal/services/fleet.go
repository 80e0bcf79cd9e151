package services

import (
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
)

// BuildFleet creates the configured trucks and pairs min(trucks, drivers) of
// them with drivers. With delayed launch on and more than one truck in
// service, the last truck departs at the earliest time a held-back package
// becomes available: a delayed arrival or an address correction.
func BuildFleet(cfg config.Config, pkgs []*domain.Package) ([]*domain.Truck, []*domain.Driver) {
	depart := cfg.DepartAt()

	trucks := make([]*domain.Truck, 0, cfg.Fleet.Trucks)
	for i := 1; i <= cfg.Fleet.Trucks; i++ {
		trucks = append(trucks, domain.NewTruck(i, cfg.Fleet.Capacity, cfg.Fleet.SpeedMPH, cfg.Fleet.Hub, depart))
	}

	active, drivers := domain.NewFleet(trucks, cfg.Fleet.Drivers)

	if cfg.Fleet.DelayedLaunch && len(active) > 1 {
		if at, ok := firstDelayedArrival(pkgs); ok && at > depart {
			last := active[len(active)-1]
			last.Clock = at
			logrus.WithField("module", "fleet").WithFields(logrus.Fields{
				"truck":  last.TruckID,
				"depart": domain.FormatClock(at),
			}).Info("delayed launch")
		}
	}

	return active, drivers
}

func firstDelayedArrival(pkgs []*domain.Package) (time.Duration, bool) {
	var (
		first time.Duration
		found bool
	)
	for _, p := range pkgs {
		switch p.Constraint.Kind {
		case domain.ConstraintDelayedUntil, domain.ConstraintAddressCorrection:
		default:
			continue
		}
		if p.Constraint.Until == 0 {
			continue
		}
		if !found || p.Constraint.Until < first {
			first = p.Constraint.Until
			found = true
		}
	}
	return first, found
}
