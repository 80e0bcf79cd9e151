package services

import (
	"parcel-dispatch-service/internal/adapters/distance"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/store"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// lineProvider places every address on a number line; distance is the gap.
func lineProvider(positions map[string]float64) *distance.MockDistanceProvider {
	var pairs []distance.MockPair
	for a, pa := range positions {
		for b, pb := range positions {
			if a >= b {
				continue
			}
			d := pa - pb
			if d < 0 {
				d = -d
			}
			pairs = append(pairs, distance.MockPair{From: a, To: b, Miles: d})
		}
	}
	return distance.NewMockDistanceProvider(pairs)
}

func newTestStore(t *testing.T, pkgs ...*domain.Package) *store.PackageStore {
	t.Helper()
	s := store.New(store.DefaultCapacity)
	for _, p := range pkgs {
		require.NoError(t, s.Insert(p))
	}
	return s
}

func pkg(id int, dest string) *domain.Package {
	return &domain.Package{PackageID: id, Destination: dest, Deadline: domain.EndOfDay}
}

func restricted(id int, dest string, truckID int) *domain.Package {
	p := pkg(id, dest)
	p.Constraint = domain.Constraint{Kind: domain.ConstraintRequiresVehicle, TruckID: truckID}
	return p
}

func grouped(id int, dest string, with ...int) *domain.Package {
	p := pkg(id, dest)
	p.Constraint = domain.Constraint{Kind: domain.ConstraintRequiresGroup, With: with}
	return p
}

func delayed(id int, dest string, until time.Duration) *domain.Package {
	p := pkg(id, dest)
	p.Constraint = domain.Constraint{Kind: domain.ConstraintDelayedUntil, Until: until}
	return p
}

func clock(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}
