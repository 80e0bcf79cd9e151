package services

import (
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/store"
	"time"

	"github.com/samber/lo"
)

// PackageStatus is one row of a status report.
type PackageStatus struct {
	Package     *domain.Package
	Status      domain.Status
	DeliveredAt *time.Duration // only when delivered by the report time
	Late        bool
}

type TruckMileage struct {
	TruckID int
	Miles   float64
}

type Report struct {
	At         time.Duration
	Packages   []PackageStatus
	Trucks     []TruckMileage
	TotalMiles float64
}

// PackageStatusAt reports pkg as it stood at at.
func PackageStatusAt(pkg *domain.Package, at time.Duration) PackageStatus {
	ps := PackageStatus{Package: pkg, Status: pkg.StatusAt(at)}
	if ps.Status == domain.StatusDelivered {
		ps.DeliveredAt = pkg.DeliveredAt
		ps.Late = !pkg.OnTime()
	}
	return ps
}

// BuildReport snapshots every package (slot order) and truck mileage at at.
func BuildReport(s *store.PackageStore, trucks []*domain.Truck, at time.Duration) Report {
	miles := lo.Map(trucks, func(t *domain.Truck, _ int) TruckMileage {
		return TruckMileage{TruckID: t.TruckID, Miles: t.MileageAt(at)}
	})
	return Report{
		At: at,
		Packages: lo.Map(s.Packages(), func(p *domain.Package, _ int) PackageStatus {
			return PackageStatusAt(p, at)
		}),
		Trucks:     miles,
		TotalMiles: lo.SumBy(miles, func(m TruckMileage) float64 { return m.Miles }),
	}
}

// PackageReport looks up one package and reports it at at.
func PackageReport(s *store.PackageStore, id int, at time.Duration) (PackageStatus, error) {
	pkg, err := s.Get(id)
	if err != nil {
		return PackageStatus{}, fmt.Errorf("package report: %w", err)
	}
	return PackageStatusAt(pkg, at), nil
}
