package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/adapters/distance"
	"parcel-dispatch-service/internal/domain"
)

// Initialize the PostgreSQL database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		address TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT 'EOD',
		mass DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	createAddressesQuery := `
	CREATE TABLE IF NOT EXISTS addresses (
		position INTEGER PRIMARY KEY,
		address TEXT NOT NULL UNIQUE
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS distances (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		miles DOUBLE PRECISION NOT NULL CHECK (miles >= 0),
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distances_destination_origin
	ON distances(destination, origin);
	`

	statements := []string{
		createPackagesQuery,
		createAddressesQuery,
		createDistancesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the packages table from a package CSV file.
func SeedPackagesFromCSV(ctx context.Context, db *sql.DB, path string) error {
	pkgs, err := NewCSVPackageRepository(path).ListPackages(ctx)
	if err != nil {
		return fmt.Errorf("seed packages: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed packages: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO packages (
		package_id,
		address,
		city,
		state,
		zip,
		deadline,
		mass,
		notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (package_id) DO UPDATE SET
		address = EXCLUDED.address,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		zip = EXCLUDED.zip,
		deadline = EXCLUDED.deadline,
		mass = EXCLUDED.mass,
		notes = EXCLUDED.notes;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pkgs {
		deadline := domain.FormatClock(p.Deadline)
		if _, err := stmt.ExecContext(ctx, p.PackageID, p.Destination, p.City, p.State, p.Zip, deadline, p.Mass, p.Notes); err != nil {
			return fmt.Errorf("seed packages: insert package_id=%d: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed packages: commit tx: %w", err)
	}

	return nil
}

// Populate the addresses and distances tables from the matrix CSV files.
// Only the upper triangle is stored; the provider mirrors it on load.
func SeedDistancesFromCSV(ctx context.Context, db *sql.DB, addressesPath, distancesPath string) error {
	matrix, err := distance.LoadMatrixCSV(addressesPath, distancesPath)
	if err != nil {
		return fmt.Errorf("seed distances: %w", err)
	}
	addresses := matrix.Addresses()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed distances: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM distances;`, `DELETE FROM addresses;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed distances: clear tables: %w", err)
		}
	}

	addrStmt, err := tx.PrepareContext(ctx, `INSERT INTO addresses (position, address) VALUES ($1, $2);`)
	if err != nil {
		return fmt.Errorf("seed distances: prepare address insert: %w", err)
	}
	defer addrStmt.Close()

	distStmt, err := tx.PrepareContext(ctx, `INSERT INTO distances (origin, destination, miles) VALUES ($1, $2, $3);`)
	if err != nil {
		return fmt.Errorf("seed distances: prepare distance insert: %w", err)
	}
	defer distStmt.Close()

	for i, a := range addresses {
		if _, err := addrStmt.ExecContext(ctx, i, a); err != nil {
			return fmt.Errorf("seed distances: insert address %q: %w", a, err)
		}
	}

	for i, origin := range addresses {
		dests := addresses[i+1:]
		if len(dests) == 0 {
			continue
		}
		row, err := matrix.GetDistances(ctx, origin, dests)
		if err != nil {
			return fmt.Errorf("seed distances: %w", err)
		}
		for _, dest := range dests {
			if _, err := distStmt.ExecContext(ctx, origin, dest, row[dest]); err != nil {
				return fmt.Errorf("seed distances: insert %q -> %q: %w", origin, dest, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed distances: commit tx: %w", err)
	}

	return nil
}

// Rows the seed wrote, for the dbtool summary.
func CountRows(ctx context.Context, db *sql.DB) (map[string]int, error) {
	out := make(map[string]int, 3)
	for _, table := range []string{"packages", "addresses", "distances"} {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+";").Scan(&n); err != nil {
			return nil, fmt.Errorf("count rows: %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}
