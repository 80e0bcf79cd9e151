// Package app is the composition root shared by the binaries: it reads the
// environment, wires concrete adapters behind ports and runs the simulation.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"parcel-dispatch-service/internal/adapters/distance"
	"parcel-dispatch-service/internal/adapters/repositories"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/db"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/services"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Sources names where packages, distances and fleet settings come from.
type Sources struct {
	DataSource    string
	DatabaseURL   string
	PackagesPath  string
	AddressesPath string
	DistancesPath string
	FleetConfig   string
}

func SourcesFromEnv() Sources {
	return Sources{
		DataSource:    strings.ToLower(config.Get("DATA_SOURCE", SourceCSV)),
		DatabaseURL:   config.Get("DATABASE_URL", ""),
		PackagesPath:  config.Get("PACKAGES_PATH", "data/packages.csv"),
		AddressesPath: config.Get("ADDRESSES_PATH", "data/addresses.csv"),
		DistancesPath: config.Get("DISTANCES_PATH", "data/distances.csv"),
		FleetConfig:   config.Get("FLEET_CONFIG", ""),
	}
}

// Dataset is everything the simulation needs, loaded once.
type Dataset struct {
	Config   config.Config
	Packages []*domain.Package
	Provider ports.DistanceProvider
}

// Load reads the fleet config, then packages and the distance matrix concurrently.
func Load(ctx context.Context, src Sources) (_ *Dataset, err error) {
	defer obs.Time(ctx, "app.Load")(&err)

	cfg, err := config.Load(src.FleetConfig)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	var (
		repo      ports.PackageRepository
		conn      *sql.DB
		loadPairs func(ctx context.Context) (ports.DistanceProvider, error)
	)

	switch src.DataSource {
	case SourceCSV:
		repo = repositories.NewCSVPackageRepository(src.PackagesPath)
		loadPairs = func(context.Context) (ports.DistanceProvider, error) {
			return distance.LoadMatrixCSV(src.AddressesPath, src.DistancesPath)
		}
	case SourcePostgres:
		if src.DatabaseURL == "" {
			return nil, fmt.Errorf("load dataset: DATABASE_URL is required for %s source", SourcePostgres)
		}
		conn, err = db.Open(src.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		defer conn.Close()

		repo = repositories.NewSQLPackageRepository(conn)
		loadPairs = func(ctx context.Context) (ports.DistanceProvider, error) {
			return distance.NewSQLDistanceProvider(ctx, conn)
		}
	default:
		return nil, fmt.Errorf("load dataset: unknown DATA_SOURCE %q: %w", src.DataSource, domain.ErrMalformedInput)
	}

	ds := &Dataset{Config: cfg}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pkgs, err := repo.ListPackages(gctx)
		if err != nil {
			return err
		}
		ds.Packages = pkgs
		return nil
	})
	g.Go(func() error {
		p, err := loadPairs(gctx)
		if err != nil {
			return err
		}
		ds.Provider = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	logrus.WithField("module", "app").WithFields(logrus.Fields{
		"source":   src.DataSource,
		"packages": len(ds.Packages),
		"trucks":   cfg.Fleet.Trucks,
		"drivers":  cfg.Fleet.Drivers,
	}).Info("dataset loaded")

	return ds, nil
}

// Simulate loads the dataset and runs the delivery day to completion.
func Simulate(ctx context.Context, src Sources) (*services.DeliveryResult, error) {
	ds, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return services.PlanDeliveries(ctx, ds.Config, ds.Packages, ds.Provider)
}
