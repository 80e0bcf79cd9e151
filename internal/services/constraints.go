package services

import (
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/store"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ConstraintResolver decides which packages a truck may take at a given
// simulated time. Co-delivery groups are computed once at construction;
// annotations do not change after load.
type ConstraintResolver struct {
	store   *store.PackageStore
	groups  [][]int
	groupOf map[int]int
}

// unionFind tracks must-ship-with components without recursion.
type unionFind struct {
	parent map[int]int
}

func (u *unionFind) add(x int) {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
}

func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for x != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}
	return root
}

func (u *unionFind) union(a, b int) {
	u.add(a)
	u.add(b)
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// NewConstraintResolver validates every package annotation against the store
// and the active fleet, then builds the co-delivery groups.
func NewConstraintResolver(s *store.PackageStore, trucks []*domain.Truck) (*ConstraintResolver, error) {
	if s == nil {
		return nil, errors.New("new constraint resolver: store is nil")
	}

	pkgs := s.Packages()
	uf := &unionFind{parent: make(map[int]int)}
	for _, p := range pkgs {
		if p.Constraint.Kind != domain.ConstraintRequiresGroup {
			continue
		}
		for _, id := range p.Constraint.With {
			if _, ok := s.Lookup(id); !ok {
				return nil, fmt.Errorf("new constraint resolver: package %d must ship with missing package %d: %w",
					p.PackageID, id, domain.ErrConstraintViolation)
			}
			uf.union(p.PackageID, id)
		}
	}

	r := &ConstraintResolver{store: s, groupOf: make(map[int]int)}

	// Walk in slot order so groups and their members come out in store order.
	rootIdx := make(map[int]int)
	for _, p := range pkgs {
		if _, ok := uf.parent[p.PackageID]; !ok {
			continue
		}
		root := uf.find(p.PackageID)
		gi, ok := rootIdx[root]
		if !ok {
			gi = len(r.groups)
			rootIdx[root] = gi
			r.groups = append(r.groups, nil)
		}
		r.groups[gi] = append(r.groups[gi], p.PackageID)
	}
	r.groups = lo.Filter(r.groups, func(g []int, _ int) bool { return len(g) >= 2 })
	for gi, g := range r.groups {
		for _, id := range g {
			r.groupOf[id] = gi
		}
	}

	if err := r.validate(trucks); err != nil {
		return nil, fmt.Errorf("new constraint resolver: %w", err)
	}

	logrus.WithField("module", "constraints").WithFields(logrus.Fields{
		"packages": len(pkgs),
		"groups":   len(r.groups),
	}).Debug("constraints resolved")

	return r, nil
}

func (r *ConstraintResolver) validate(trucks []*domain.Truck) error {
	byID := lo.KeyBy(trucks, func(t *domain.Truck) int { return t.TruckID })
	maxCap := lo.Max(lo.Map(trucks, func(t *domain.Truck, _ int) int { return t.Capacity }))

	for _, p := range r.store.Packages() {
		if tid, ok := RequiredVehicle(p); ok {
			if _, exists := byID[tid]; !exists {
				return fmt.Errorf("package %d requires truck %d which is not in service: %w",
					p.PackageID, tid, domain.ErrConstraintViolation)
			}
		}
	}

	for _, g := range r.groups {
		required := 0
		for _, id := range g {
			p, _ := r.store.Lookup(id)
			tid, ok := RequiredVehicle(p)
			if !ok {
				continue
			}
			if required != 0 && required != tid {
				return fmt.Errorf("group %v requires both truck %d and truck %d: %w",
					g, required, tid, domain.ErrConstraintViolation)
			}
			required = tid
		}

		capacity := maxCap
		if required != 0 {
			capacity = byID[required].Capacity
		}
		if len(g) > capacity {
			return fmt.Errorf("group %v has %d packages, truck capacity is %d: %w",
				g, len(g), capacity, domain.ErrConstraintViolation)
		}
	}
	return nil
}

// AssociatedGroups returns every co-delivery group (two or more package ids).
func (r *ConstraintResolver) AssociatedGroups() [][]int {
	out := make([][]int, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, append([]int(nil), g...))
	}
	return out
}

// GroupOf returns the co-delivery group holding id, or nil.
func (r *ConstraintResolver) GroupOf(id int) []int {
	gi, ok := r.groupOf[id]
	if !ok {
		return nil
	}
	return r.groups[gi]
}

// Members of pkg's group (pkg included) that no truck holds yet.
func (r *ConstraintResolver) unassignedGroup(pkg *domain.Package) []*domain.Package {
	group := r.GroupOf(pkg.PackageID)
	if group == nil {
		if pkg.IsAssigned() {
			return nil
		}
		return []*domain.Package{pkg}
	}

	out := make([]*domain.Package, 0, len(group))
	for _, id := range group {
		if p, ok := r.store.Lookup(id); ok && !p.IsAssigned() {
			out = append(out, p)
		}
	}
	return out
}

func RequiredVehicle(pkg *domain.Package) (int, bool) {
	if pkg.Constraint.Kind == domain.ConstraintRequiresVehicle {
		return pkg.Constraint.TruckID, true
	}
	return 0, false
}

// EarliestAvailable returns the clock before which the package cannot leave
// the hub: a delayed arrival, or the time a corrected address becomes known.
func EarliestAvailable(pkg *domain.Package) (time.Duration, bool) {
	switch pkg.Constraint.Kind {
	case domain.ConstraintDelayedUntil, domain.ConstraintAddressCorrection:
		return pkg.Constraint.Until, true
	}
	return 0, false
}

// IneligiblePackages returns the ids that must not go on truckID at now:
// already assigned, restricted to another truck, or not yet available.
// Restriction and unavailability extend to the whole co-delivery group.
func (r *ConstraintResolver) IneligiblePackages(truckID int, now time.Duration) map[int]struct{} {
	out := make(map[int]struct{})
	for _, p := range r.store.Packages() {
		if p.IsAssigned() {
			out[p.PackageID] = struct{}{}
			continue
		}

		blocked := false
		if tid, ok := RequiredVehicle(p); ok && tid != truckID {
			blocked = true
		} else if at, ok := EarliestAvailable(p); ok && at > now {
			blocked = true
		}
		if !blocked {
			continue
		}

		out[p.PackageID] = struct{}{}
		for _, id := range r.GroupOf(p.PackageID) {
			out[id] = struct{}{}
		}
	}
	return out
}

// EligiblePackages returns the packages truckID may take at now, in store slot order.
func (r *ConstraintResolver) EligiblePackages(truckID int, now time.Duration) []*domain.Package {
	ineligible := r.IneligiblePackages(truckID, now)
	return lo.Filter(r.store.Packages(), func(p *domain.Package, _ int) bool {
		_, blocked := ineligible[p.PackageID]
		return !blocked
	})
}
