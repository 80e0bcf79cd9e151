// Package store indexes packages by identifier in an open-addressed table.
//
// Slots are probed with the quadratic sequence
//
//	slot(i) = (h(id) + c1·i + c2·i²) mod N,  i = 0, 1, …, N-1
//
// where h is the identity hash and (c1, c2) default to (0, 1). When no free
// slot is found within N probes the table doubles and every live entry is
// reinserted in slot order. Iteration walks slots in order, which is the order
// route planning uses to break ties, so the hash and probe constants are fixed.
package store

import (
	"fmt"
	"parcel-dispatch-service/internal/domain"
)

const (
	DefaultCapacity = 40
	DefaultC1       = 0
	DefaultC2       = 1
)

type BucketStatus int

const (
	EmptySinceStart BucketStatus = iota
	Occupied
	EmptyAfterRemoval
)

type bucket struct {
	status BucketStatus
	pkg    *domain.Package
}

// PackageStore is not safe for concurrent mutation.
type PackageStore struct {
	buckets []bucket
	c1, c2  int
	size    int
}

type Option func(*PackageStore)

func WithProbeConstants(c1, c2 int) Option {
	return func(s *PackageStore) {
		s.c1 = c1
		s.c2 = c2
	}
}

func New(capacity int, opts ...Option) *PackageStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &PackageStore{
		buckets: make([]bucket, capacity),
		c1:      DefaultC1,
		c2:      DefaultC2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func hash(id int) int { return id }

func (s *PackageStore) slot(id, i int) int {
	n := len(s.buckets)
	return ((hash(id)+s.c1*i+s.c2*i*i)%n + n) % n
}

// Insert a package under its PackageID. Callers must not insert a key twice.
func (s *PackageStore) Insert(pkg *domain.Package) error {
	if pkg == nil {
		return fmt.Errorf("insert package: nil package: %w", domain.ErrMalformedInput)
	}
	if pkg.PackageID <= 0 {
		return fmt.Errorf("insert package: invalid package_id=%d: %w", pkg.PackageID, domain.ErrMalformedInput)
	}

	for !s.place(pkg) {
		s.resize()
	}
	s.size++
	return nil
}

func (s *PackageStore) place(pkg *domain.Package) bool {
	for i := 0; i < len(s.buckets); i++ {
		b := &s.buckets[s.slot(pkg.PackageID, i)]
		if b.status != Occupied {
			b.pkg = pkg
			b.status = Occupied
			return true
		}
	}
	return false
}

func (s *PackageStore) resize() {
	old := s.buckets
	n := 2 * len(old)
	for {
		s.buckets = make([]bucket, n)
		if s.rehash(old) {
			return
		}
		// Quadratic probing does not visit every slot; double again until all entries fit.
		n *= 2
	}
}

func (s *PackageStore) rehash(old []bucket) bool {
	for _, b := range old {
		if b.status == Occupied && !s.place(b.pkg) {
			return false
		}
	}
	return true
}

func (s *PackageStore) find(id int) int {
	for i := 0; i < len(s.buckets); i++ {
		idx := s.slot(id, i)
		b := &s.buckets[idx]
		switch b.status {
		case EmptySinceStart:
			return -1
		case Occupied:
			if b.pkg.PackageID == id {
				return idx
			}
		}
	}
	return -1
}

// Lookup returns the package stored under id, or false when absent.
func (s *PackageStore) Lookup(id int) (*domain.Package, bool) {
	if id < 0 {
		return nil, false
	}
	idx := s.find(id)
	if idx < 0 {
		return nil, false
	}
	return s.buckets[idx].pkg, true
}

// Get is Lookup with an ErrNotFound error for absent keys.
func (s *PackageStore) Get(id int) (*domain.Package, error) {
	pkg, ok := s.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("lookup package_id=%d: %w", id, domain.ErrNotFound)
	}
	return pkg, nil
}

// Remove vacates the slot holding id. The slot stays probe-transparent.
func (s *PackageStore) Remove(id int) bool {
	if id < 0 {
		return false
	}
	idx := s.find(id)
	if idx < 0 {
		return false
	}
	s.buckets[idx] = bucket{status: EmptyAfterRemoval}
	s.size--
	return true
}

// Packages returns the stored packages in slot order.
func (s *PackageStore) Packages() []*domain.Package {
	out := make([]*domain.Package, 0, s.size)
	for _, b := range s.buckets {
		if b.status == Occupied {
			out = append(out, b.pkg)
		}
	}
	return out
}

func (s *PackageStore) Len() int { return s.size }

func (s *PackageStore) Cap() int { return len(s.buckets) }
