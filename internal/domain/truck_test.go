package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruckDeliverTrip(t *testing.T) {
	// build test data
	pkg1 := &Package{PackageID: 1, Destination: "A"}
	pkg2 := &Package{PackageID: 2, Destination: "B"}
	pkg3 := &Package{PackageID: 3, Destination: "C"}

	departAt := 8 * time.Hour
	truck := NewTruck(1, 3, 18, "HUB", departAt)

	for _, p := range []*Package{pkg1, pkg2, pkg3} {
		require.NoError(t, truck.Assign(p))
	}
	truck.Dispatch([]*Package{pkg1, pkg2, pkg3})

	// 3 miles at 18 mph is 10 minutes
	require.NoError(t, truck.Deliver(pkg1, 3))
	require.NoError(t, truck.Deliver(pkg2, 3))

	// verify behavior
	for _, pkg := range []*Package{pkg1, pkg2, pkg3} {
		require.NotNil(t, pkg.LoadedAt, "package %d LoadedAt", pkg.PackageID)
		assert.Equal(t, departAt, *pkg.LoadedAt)
		assert.Equal(t, 1, pkg.TruckID)
	}

	require.NotNil(t, pkg1.DeliveredAt)
	assert.Equal(t, departAt+10*time.Minute, *pkg1.DeliveredAt)
	require.NotNil(t, pkg2.DeliveredAt)
	assert.Equal(t, departAt+20*time.Minute, *pkg2.DeliveredAt)
	assert.Nil(t, pkg3.DeliveredAt)
	assert.Equal(t, StatusEnRoute, pkg3.Status)
	assert.Equal(t, []int{3}, truck.Manifest)
	assert.False(t, truck.AtHub)

	truck.ReturnToHub(6)
	assert.True(t, truck.AtHub)
	assert.InDelta(t, 12.0, truck.Mileage, 1e-9)
	assert.Equal(t, departAt+40*time.Minute, truck.Clock)
}

func TestTruckAssignCapacity(t *testing.T) {
	truck := NewTruck(1, 1, 18, "HUB", 8*time.Hour)

	require.NoError(t, truck.Assign(&Package{PackageID: 1}))
	assert.True(t, truck.IsFull())

	over := &Package{PackageID: 2}
	err := truck.Assign(over)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.False(t, over.IsAssigned())
	assert.Len(t, truck.Manifest, 1)
}

func TestTruckAssignIsPermanent(t *testing.T) {
	t1 := NewTruck(1, 4, 18, "HUB", 8*time.Hour)
	t2 := NewTruck(2, 4, 18, "HUB", 8*time.Hour)
	pkg := &Package{PackageID: 7}

	require.NoError(t, t1.Assign(pkg))
	err := t2.Assign(pkg)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, 1, pkg.TruckID)
	assert.Empty(t, t2.Manifest)
}

func TestTruckMileageAt(t *testing.T) {
	truck := NewTruck(1, 4, 18, "HUB", 8*time.Hour)
	a := &Package{PackageID: 1, Destination: "A"}
	require.NoError(t, truck.Assign(a))
	truck.Dispatch([]*Package{a})
	require.NoError(t, truck.Deliver(a, 9)) // 08:30
	truck.ReturnToHub(9)                    // 09:00

	assert.Equal(t, 0.0, truck.MileageAt(8*time.Hour+29*time.Minute))
	assert.Equal(t, 9.0, truck.MileageAt(8*time.Hour+30*time.Minute))
	assert.Equal(t, 9.0, truck.MileageAt(8*time.Hour+59*time.Minute))
	assert.Equal(t, 18.0, truck.MileageAt(12*time.Hour))

	for i := 1; i < len(truck.Log); i++ {
		assert.GreaterOrEqual(t, truck.Log[i].Miles, truck.Log[i-1].Miles)
		assert.GreaterOrEqual(t, truck.Log[i].At, truck.Log[i-1].At)
	}
}

func TestTruckReorder(t *testing.T) {
	truck := NewTruck(1, 4, 18, "HUB", 8*time.Hour)
	for id := 1; id <= 3; id++ {
		require.NoError(t, truck.Assign(&Package{PackageID: id}))
	}

	require.NoError(t, truck.Reorder([]int{3, 1, 2}))
	assert.Equal(t, []int{3, 1, 2}, truck.Manifest)
	assert.Error(t, truck.Reorder([]int{3, 1, 4}))
	assert.Error(t, truck.Reorder([]int{3, 1}))
}

func TestNewFleetPairsDrivers(t *testing.T) {
	trucks := []*Truck{
		NewTruck(1, 16, 18, "HUB", 8*time.Hour),
		NewTruck(2, 16, 18, "HUB", 8*time.Hour),
		NewTruck(3, 16, 18, "HUB", 8*time.Hour),
	}

	active, drivers := NewFleet(trucks, 2)
	require.Len(t, active, 2)
	require.Len(t, drivers, 2)
	for i, d := range drivers {
		assert.Same(t, active[i], d.Truck)
		assert.Same(t, d, active[i].Driver)
	}

	drivers[0].ReleaseTruck()
	assert.Nil(t, active[0].Driver)
	assert.Nil(t, drivers[0].Truck)
	assert.True(t, drivers[0].AssignTruck(trucks))
	assert.Same(t, trucks[0], drivers[0].Truck)
}
