package store

import (
	"parcel-dispatch-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageStoreRoundTrip(t *testing.T) {
	s := New(DefaultCapacity)
	for id := 1; id <= 40; id++ {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}

	assert.Equal(t, 40, s.Len())
	for id := 1; id <= 40; id++ {
		pkg, ok := s.Lookup(id)
		require.True(t, ok, "package %d", id)
		assert.Equal(t, id, pkg.PackageID)
	}

	_, ok := s.Lookup(41)
	assert.False(t, ok)
	_, err := s.Get(99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPackageStoreSlotOrder(t *testing.T) {
	s := New(10)
	for _, id := range []int{7, 3, 12, 1} {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}

	// 1 -> slot 1, 12 -> slot 2, 3 -> slot 3, 7 -> slot 7
	ids := make([]int, 0, 4)
	for _, p := range s.Packages() {
		ids = append(ids, p.PackageID)
	}
	assert.Equal(t, []int{1, 12, 3, 7}, ids)
}

func TestPackageStoreCollisionsProbe(t *testing.T) {
	s := New(10)
	// 2, 12 and 22 share home slot 2; probes go to 3 and 6.
	for _, id := range []int{2, 12, 22} {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}

	ids := make([]int, 0, 3)
	for _, p := range s.Packages() {
		ids = append(ids, p.PackageID)
	}
	assert.Equal(t, []int{2, 12, 22}, ids)
	assert.Equal(t, 10, s.Cap())

	for _, id := range []int{2, 12, 22} {
		_, ok := s.Lookup(id)
		assert.True(t, ok, "package %d", id)
	}
}

func TestPackageStoreResizePreservesContents(t *testing.T) {
	s := New(4)
	const n = 50
	for id := 1; id <= n; id++ {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}

	assert.Equal(t, n, s.Len())
	assert.GreaterOrEqual(t, s.Cap(), n)

	seen := make(map[int]int)
	for _, p := range s.Packages() {
		seen[p.PackageID]++
	}
	assert.Len(t, seen, n)
	for id := 1; id <= n; id++ {
		assert.Equal(t, 1, seen[id], "package %d", id)
		pkg, ok := s.Lookup(id)
		require.True(t, ok, "package %d", id)
		assert.Equal(t, id, pkg.PackageID)
	}
}

func TestPackageStoreRemoveKeepsProbeChain(t *testing.T) {
	s := New(10)
	for _, id := range []int{2, 12, 22} {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}

	assert.True(t, s.Remove(12))
	assert.False(t, s.Remove(12))
	_, ok := s.Lookup(12)
	assert.False(t, ok)

	// 22 sits past the vacated slot and must still be reachable.
	_, ok = s.Lookup(22)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())

	// The vacated slot is reused by the next colliding insert.
	require.NoError(t, s.Insert(&domain.Package{PackageID: 32}))
	assert.Equal(t, 10, s.Cap())
	_, ok = s.Lookup(32)
	assert.True(t, ok)
}

func TestPackageStoreRejectsInvalid(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultCapacity, s.Cap())
	assert.ErrorIs(t, s.Insert(nil), domain.ErrMalformedInput)
	assert.ErrorIs(t, s.Insert(&domain.Package{PackageID: 0}), domain.ErrMalformedInput)
	assert.Equal(t, 0, s.Len())
}

func TestPackageStoreProbeConstants(t *testing.T) {
	s := New(8, WithProbeConstants(1, 0))
	for _, id := range []int{1, 9, 17} {
		require.NoError(t, s.Insert(&domain.Package{PackageID: id}))
	}
	// linear probing: 1 -> 1, 9 -> 2, 17 -> 3
	ids := make([]int, 0, 3)
	for _, p := range s.Packages() {
		ids = append(ids, p.PackageID)
	}
	assert.Equal(t, []int{1, 9, 17}, ids)
}
