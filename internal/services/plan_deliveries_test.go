package services

import (
	"context"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Fleet.Trucks = 2
	cfg.Fleet.Drivers = 2
	cfg.Fleet.Capacity = 3
	cfg.Fleet.Hub = "HUB"
	cfg.Corrections = []config.Correction{{PackageID: 9, Street: "F", City: "Salt Lake City", State: "UT", Zip: "84111"}}
	return cfg
}

func withNote(t *testing.T, p *domain.Package, note string) *domain.Package {
	t.Helper()
	c, err := domain.ParseConstraint(note)
	require.NoError(t, err)
	p.Notes = note
	p.Constraint = c
	return p
}

func testDay(t *testing.T) []*domain.Package {
	p5 := withNote(t, pkg(5, "E"), "Delayed on flight---will not arrive to depot until 9:05 am")
	p5.Deadline = clock(10, 30)
	return []*domain.Package{
		pkg(1, "A"),
		withNote(t, pkg(2, "B"), "Can only be on truck 2"),
		withNote(t, pkg(3, "C"), "Must be delivered with 4"),
		pkg(4, "D"),
		p5,
		withNote(t, pkg(9, "W"), "Wrong address listed"),
	}
}

func TestPlanDeliveries(t *testing.T) {
	provider := lineProvider(map[string]float64{"HUB": 0, "A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6, "W": 1.5})

	res, err := PlanDeliveries(context.Background(), testConfig(), testDay(t), provider)
	require.NoError(t, err)
	require.Len(t, res.Trucks, 2)
	require.Len(t, res.Drivers, 2)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, [][]int{{3, 4}}, res.Groups)

	truck1, truck2 := res.Trucks[0], res.Trucks[1]
	assert.Same(t, truck1, res.Drivers[0].Truck)

	// Delayed launch: truck 2 leaves with the 9:05 arrivals.
	require.NotEmpty(t, truck2.Trips)
	assert.Equal(t, clock(9, 5), truck2.Trips[0].DepartAt)
	assert.Equal(t, clock(8, 0), truck1.Trips[0].DepartAt)

	p9, err := res.Store.Get(9)
	require.NoError(t, err)
	assert.Equal(t, "F", p9.Destination)
	assert.Equal(t, "84111", p9.Zip)
	require.NotNil(t, p9.LoadedAt)
	assert.GreaterOrEqual(t, *p9.LoadedAt, clock(10, 20))

	p5, _ := res.Store.Get(5)
	assert.Equal(t, domain.StatusAtHub, p5.StatusAt(clock(9, 0)))
	assert.True(t, p5.OnTime())

	p2, _ := res.Store.Get(2)
	assert.Equal(t, 2, p2.TruckID)

	// Truck 1: A, C, D and back (8 mi), then F and back (12 mi).
	assert.InDelta(t, 20.0, truck1.Mileage, 1e-9)
	// Truck 2: B, E and back.
	assert.InDelta(t, 10.0, truck2.Mileage, 1e-9)
	assert.Len(t, res.Plans(), 3)
	assert.InDelta(t, float64(clock(9, 5)+16*time.Minute+40*time.Second), float64(truck2.Trips[0].Stops[1].ArriveAt), float64(time.Millisecond))
}

func TestPlanDeliveriesRejectsBadInput(t *testing.T) {
	provider := lineProvider(map[string]float64{"HUB": 0, "A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6, "W": 1.5})
	ctx := context.Background()

	noCorrection := testConfig()
	noCorrection.Corrections = nil
	_, err := PlanDeliveries(ctx, noCorrection, testDay(t), provider)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	_, err = PlanDeliveries(ctx, testConfig(), []*domain.Package{pkg(1, "nowhere")}, provider)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A listed address must be known even when a correction replaces it.
	unknownListed := []*domain.Package{withNote(t, pkg(9, "nowhere"), "Wrong address listed")}
	_, err = PlanDeliveries(ctx, testConfig(), unknownListed, provider)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = PlanDeliveries(ctx, testConfig(), []*domain.Package{pkg(1, "A"), pkg(1, "B")}, provider)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	oneTruck := testConfig()
	oneTruck.Fleet.Drivers = 1
	_, err = PlanDeliveries(ctx, oneTruck, testDay(t), provider)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestBuildFleet(t *testing.T) {
	cfg := config.Default()
	pkgs := []*domain.Package{delayed(6, "A", clock(9, 5)), delayed(25, "A", clock(9, 5)), pkg(1, "A")}

	trucks, drivers := BuildFleet(cfg, pkgs)
	require.Len(t, trucks, 2)
	require.Len(t, drivers, 2)
	assert.Equal(t, clock(8, 0), trucks[0].Clock)
	assert.Equal(t, clock(9, 5), trucks[1].Clock)

	cfg.Fleet.DelayedLaunch = false
	trucks, _ = BuildFleet(cfg, pkgs)
	assert.Equal(t, clock(8, 0), trucks[1].Clock)
}

func TestBuildFleetWaitsForCorrectionWithoutDelays(t *testing.T) {
	cfg := config.Default()
	fix := pkg(9, "W")
	fix.Constraint = domain.Constraint{Kind: domain.ConstraintAddressCorrection, Until: clock(10, 20)}

	trucks, _ := BuildFleet(cfg, []*domain.Package{pkg(1, "A"), fix})
	require.Len(t, trucks, 2)
	assert.Equal(t, clock(8, 0), trucks[0].Clock)
	assert.Equal(t, clock(10, 20), trucks[1].Clock)

	// The earlier of a delay and a correction wins.
	trucks, _ = BuildFleet(cfg, []*domain.Package{fix, delayed(6, "A", clock(9, 5))})
	assert.Equal(t, clock(9, 5), trucks[1].Clock)
}
