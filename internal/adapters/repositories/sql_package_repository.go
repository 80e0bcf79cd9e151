package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
)

// PostgreSQL-backed implementation of the PackageRepository port.
type SQLPackageRepository struct{ DB *sql.DB }

func NewSQLPackageRepository(db *sql.DB) *SQLPackageRepository {
	return &SQLPackageRepository{DB: db}
}

// Return all packages stored in the database.
func (s *SQLPackageRepository) ListPackages(ctx context.Context) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "packages.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql package repository: DB is nil")
	}

	query := `
	SELECT
		package_id,
		address,
		city,
		state,
		zip,
		deadline,
		mass,
		notes
	FROM packages
	ORDER BY package_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		var id int
		var address, city, state, zip, deadline, mass, notes string
		err := rows.Scan(&id, &address, &city, &state, &zip, &deadline, &mass, &notes)
		if err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}

		pkg, err := parsePackage([]string{fmt.Sprint(id), address, city, state, zip, deadline, mass, notes})
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}
