package distance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
)

// NewSQLDistanceProvider reads the addresses and distances tables once and
// serves every query from the in-memory matrix.
func NewSQLDistanceProvider(ctx context.Context, db *sql.DB) (_ *MatrixDistanceProvider, err error) {
	defer obs.Time(ctx, "distance.sql.Load")(&err)

	if db == nil {
		return nil, errors.New("sql distance provider: db is nil")
	}

	addrRows, err := db.QueryContext(ctx, `
	SELECT address
	FROM addresses
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("sql distance provider: query addresses table: %w", err)
	}
	defer addrRows.Close()

	var addresses []string
	for addrRows.Next() {
		var a string
		if err := addrRows.Scan(&a); err != nil {
			return nil, fmt.Errorf("sql distance provider: scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := addrRows.Err(); err != nil {
		return nil, fmt.Errorf("sql distance provider: address iteration: %w", err)
	}

	index := make(map[string]int, len(addresses))
	for i, a := range addresses {
		index[normalize(a)] = i
	}

	rows, err := db.QueryContext(ctx, `
	SELECT origin, destination, miles
	FROM distances;
	`)
	if err != nil {
		return nil, fmt.Errorf("sql distance provider: query distances table: %w", err)
	}
	defer rows.Close()

	matrix := make([][]float64, len(addresses))
	for i := range matrix {
		matrix[i] = make([]float64, len(addresses))
	}
	for rows.Next() {
		var origin, dest string
		var miles float64
		if err := rows.Scan(&origin, &dest, &miles); err != nil {
			return nil, fmt.Errorf("sql distance provider: scan distance: %w", err)
		}
		i, ok := index[normalize(origin)]
		if !ok {
			return nil, fmt.Errorf("sql distance provider: unknown origin %q: %w", origin, domain.ErrMalformedInput)
		}
		j, ok := index[normalize(dest)]
		if !ok {
			return nil, fmt.Errorf("sql distance provider: unknown destination %q: %w", dest, domain.ErrMalformedInput)
		}
		matrix[i][j] = miles
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql distance provider: distance iteration: %w", err)
	}

	return NewMatrixDistanceProvider(addresses, matrix)
}
