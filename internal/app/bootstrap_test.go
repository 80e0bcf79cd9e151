package app

import (
	"context"
	"parcel-dispatch-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoSources() Sources {
	return Sources{
		DataSource:    SourceCSV,
		PackagesPath:  "../../data/packages.csv",
		AddressesPath: "../../data/addresses.csv",
		DistancesPath: "../../data/distances.csv",
		FleetConfig:   "../../data/fleet.yaml",
	}
}

func TestSimulateDemoDay(t *testing.T) {
	res, err := Simulate(context.Background(), demoSources())
	require.NoError(t, err)

	require.Len(t, res.Trucks, 2)
	assert.Equal(t, 28, res.Store.Len())
	assert.Equal(t, [][]int{{13, 14, 15, 16, 19, 20}}, res.Groups)

	truckOf := make(map[int]int)
	for _, p := range res.Store.Packages() {
		require.NotNil(t, p.DeliveredAt, "package %d", p.PackageID)
		truckOf[p.PackageID] = p.TruckID
	}

	assert.Equal(t, 2, truckOf[3])
	assert.Equal(t, 2, truckOf[18])
	for _, id := range []int{14, 15, 16, 19, 20} {
		assert.Equal(t, truckOf[13], truckOf[id], "package %d", id)
	}

	p9, err := res.Store.Get(9)
	require.NoError(t, err)
	assert.Equal(t, "410 S State St", p9.Destination)
	assert.GreaterOrEqual(t, *p9.LoadedAt, 10*time.Hour+20*time.Minute)

	p6, _ := res.Store.Get(6)
	assert.Equal(t, domain.StatusAtHub, p6.StatusAt(9*time.Hour))
	assert.GreaterOrEqual(t, *p6.LoadedAt, 9*time.Hour+5*time.Minute)

	assert.Equal(t, 9*time.Hour+5*time.Minute, res.Trucks[1].Trips[0].DepartAt)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	src := demoSources()
	src.DataSource = "mongo"
	_, err := Load(context.Background(), src)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	src.DataSource = SourcePostgres
	_, err = Load(context.Background(), src)
	assert.Error(t, err)
}

func TestLoadSurfacesMissingFiles(t *testing.T) {
	src := demoSources()
	src.DistancesPath = "../../data/missing.csv"
	_, err := Load(context.Background(), src)
	assert.Error(t, err)
}
