package distance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"parcel-dispatch-service/internal/domain"
	"strconv"
	"strings"
)

// MatrixDistanceProvider answers distance queries from a dense, symmetric,
// zero-diagonal matrix built once at construction.
//
// The provider is read-only after construction and safe for concurrent use.
type MatrixDistanceProvider struct {
	index     map[string]int
	addresses []string
	miles     [][]float64
}

// normalize ensures consistent lookups by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NewMatrixDistanceProvider builds a provider from an address list and a
// lower-triangular (or full) matrix. Cells above the diagonal may be empty;
// each present cell is mirrored so the result is symmetric.
func NewMatrixDistanceProvider(addresses []string, rows [][]float64) (*MatrixDistanceProvider, error) {
	n := len(addresses)
	if n == 0 {
		return nil, fmt.Errorf("new distance matrix: address list is empty: %w", domain.ErrMalformedInput)
	}
	if len(rows) != n {
		return nil, fmt.Errorf("new distance matrix: %d rows for %d addresses: %w", len(rows), n, domain.ErrMalformedInput)
	}

	index := make(map[string]int, n)
	normalized := make([]string, 0, n)
	for i, a := range addresses {
		na := normalize(a)
		if na == "" {
			return nil, fmt.Errorf("new distance matrix: empty address at row %d: %w", i+1, domain.ErrMalformedInput)
		}
		if _, dup := index[na]; dup {
			return nil, fmt.Errorf("new distance matrix: duplicate address %q: %w", na, domain.ErrMalformedInput)
		}
		index[na] = i
		normalized = append(normalized, na)
	}

	miles := make([][]float64, n)
	for i := range miles {
		miles[i] = make([]float64, n)
	}
	for i, row := range rows {
		if len(row) > n {
			return nil, fmt.Errorf("new distance matrix: row %d has %d cells for %d addresses: %w", i+1, len(row), n, domain.ErrMalformedInput)
		}
		for j, d := range row {
			// Empty cells stand for the mirrored value.
			if d == 0 {
				continue
			}
			if d < 0 {
				return nil, fmt.Errorf("new distance matrix: negative distance at (%d,%d): %w", i+1, j+1, domain.ErrMalformedInput)
			}
			if i == j {
				return nil, fmt.Errorf("new distance matrix: non-zero diagonal at row %d: %w", i+1, domain.ErrMalformedInput)
			}
			if prev := miles[i][j]; prev != 0 && prev != d {
				return nil, fmt.Errorf("new distance matrix: asymmetric cell (%d,%d): %w", i+1, j+1, domain.ErrMalformedInput)
			}
			miles[i][j] = d
			miles[j][i] = d
		}
	}

	return &MatrixDistanceProvider{index: index, addresses: normalized, miles: miles}, nil
}

func (m *MatrixDistanceProvider) Addresses() []string {
	return append([]string(nil), m.addresses...)
}

func (m *MatrixDistanceProvider) Has(address string) bool {
	_, ok := m.index[normalize(address)]
	return ok
}

func (m *MatrixDistanceProvider) indexOf(address string) (int, error) {
	i, ok := m.index[normalize(address)]
	if !ok {
		return 0, fmt.Errorf("distance matrix: address %q: %w", address, domain.ErrNotFound)
	}
	return i, nil
}

func (m *MatrixDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (float64, error) {
	i, err := m.indexOf(origin)
	if err != nil {
		return 0, fmt.Errorf("get distance: %w", err)
	}
	j, err := m.indexOf(destination)
	if err != nil {
		return 0, fmt.Errorf("get distance: %w", err)
	}
	return m.miles[i][j], nil
}

// Compute distances from a single origin to many destinations.
func (m *MatrixDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]float64, error) {
	i, err := m.indexOf(origin)
	if err != nil {
		return nil, fmt.Errorf("get distances: %w", err)
	}

	out := make(map[string]float64, len(destinations))
	for _, d := range destinations {
		j, err := m.indexOf(d)
		if err != nil {
			return nil, fmt.Errorf("get distances: %w", err)
		}
		out[d] = m.miles[i][j]
	}
	return out, nil
}

// ReadAddresses parses the address list. Each record's first cell holds either
// a bare street address or "Location name\nStreet address"; the street is used.
func ReadAddresses(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []string
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read addresses: line %d: %v: %w", line, err, domain.ErrMalformedInput)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			return nil, fmt.Errorf("read addresses: line %d: empty address: %w", line, domain.ErrMalformedInput)
		}

		cell := rec[0]
		if i := strings.Index(cell, "\n"); i >= 0 {
			cell = cell[i+1:]
		}
		out = append(out, normalize(cell))
	}
	return out, nil
}

// ReadDistances parses a matrix whose empty cells stand for mirrored values.
func ReadDistances(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read distances: line %d: %v: %w", line, err, domain.ErrMalformedInput)
		}

		row := make([]float64, len(rec))
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			d, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("read distances: line %d column %d: %q: %w", line, j+1, cell, domain.ErrMalformedInput)
			}
			row[j] = d
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadMatrixCSV reads the address list and the distance table from disk.
func LoadMatrixCSV(addressesPath, distancesPath string) (*MatrixDistanceProvider, error) {
	af, err := os.Open(addressesPath)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: open %q: %w", addressesPath, err)
	}
	defer af.Close()

	addresses, err := ReadAddresses(af)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: %w", err)
	}

	df, err := os.Open(distancesPath)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: open %q: %w", distancesPath, err)
	}
	defer df.Close()

	rows, err := ReadDistances(df)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: %w", err)
	}

	return NewMatrixDistanceProvider(addresses, rows)
}
