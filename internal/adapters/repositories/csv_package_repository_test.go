package repositories

import (
	"context"
	"os"
	"parcel-dispatch-service/internal/domain"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packagesCSV = `package_id,address,city,state,zip,deadline,mass,notes
1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,
3,233 Canyon Rd,Salt Lake City,UT,84103,EOD,2,Can only be on truck 2
6,3060 Lester St,West Valley City,UT,84119,10:30 AM,88,Delayed on flight---will not arrive to depot until 9:05 am
9,300  State St,Salt Lake City,UT,84103,EOD,2,Wrong address listed
14,4300 S 1300 E,Millcreek,UT,84117,10:30 AM,88,"Must be delivered with 15, 19"
`

func TestReadPackages(t *testing.T) {
	pkgs, err := ReadPackages(strings.NewReader(packagesCSV))
	require.NoError(t, err)
	require.Len(t, pkgs, 5)

	p := pkgs[0]
	assert.Equal(t, 1, p.PackageID)
	assert.Equal(t, "195 W Oakland Ave", p.Destination)
	assert.Equal(t, "84115", p.Zip)
	assert.Equal(t, 10*time.Hour+30*time.Minute, p.Deadline)
	assert.Equal(t, 21.0, p.Mass)
	assert.Equal(t, domain.ConstraintNone, p.Constraint.Kind)
	assert.Equal(t, domain.StatusAtHub, p.Status)

	assert.Equal(t, domain.EndOfDay, pkgs[1].Deadline)
	assert.Equal(t, domain.ConstraintRequiresVehicle, pkgs[1].Constraint.Kind)
	assert.Equal(t, 2, pkgs[1].Constraint.TruckID)

	assert.Equal(t, domain.ConstraintDelayedUntil, pkgs[2].Constraint.Kind)
	assert.Equal(t, 9*time.Hour+5*time.Minute, pkgs[2].Constraint.Until)

	assert.Equal(t, "300 State St", pkgs[3].Destination)
	assert.Equal(t, domain.ConstraintAddressCorrection, pkgs[3].Constraint.Kind)

	assert.Equal(t, []int{15, 19}, pkgs[4].Constraint.With)
	assert.Equal(t, "Must be delivered with 15, 19", pkgs[4].Notes)
}

func TestReadPackagesRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad id", "x1,A,City,UT,84000,EOD,1,\n"},
		{"zero id", "0,A,City,UT,84000,EOD,1,\n"},
		{"empty address", "1, ,City,UT,84000,EOD,1,\n"},
		{"bad deadline", "1,A,City,UT,84000,noonish,1,\n"},
		{"bad mass", "1,A,City,UT,84000,EOD,heavy,\n"},
		{"unknown note", "1,A,City,UT,84000,EOD,1,Handle with care\n"},
		{"short row", "1,A,City\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Prefix a valid row so the header skip does not hide the bad one.
			_, err := ReadPackages(strings.NewReader("2,B,City,UT,84000,EOD,1,\n" + tt.row))
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestCSVPackageRepositoryListPackages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.csv")
	require.NoError(t, os.WriteFile(path, []byte(packagesCSV), 0o644))

	pkgs, err := NewCSVPackageRepository(path).ListPackages(context.Background())
	require.NoError(t, err)
	assert.Len(t, pkgs, 5)

	_, err = NewCSVPackageRepository(filepath.Join(t.TempDir(), "missing.csv")).ListPackages(context.Background())
	assert.Error(t, err)
}
