package repositories

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

// Column order of a package record, in files and in the packages table.
const packageFields = 8

// CSV-backed implementation of the PackageRepository port.
type CSVPackageRepository struct{ Path string }

func NewCSVPackageRepository(path string) *CSVPackageRepository {
	return &CSVPackageRepository{Path: path}
}

// Return all packages in file order.
func (c *CSVPackageRepository) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("list packages: open %q: %w", c.Path, err)
	}
	defer f.Close()

	pkgs, err := ReadPackages(f)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return pkgs, nil
}

// ReadPackages parses records of
// id, address, city, state, zip, deadline, mass, notes.
// A leading header row whose first cell is not a number is skipped.
func ReadPackages(r io.Reader) ([]*domain.Package, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []*domain.Package
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read packages: line %d: %v: %w", line, err, domain.ErrMalformedInput)
		}
		if line == 1 && len(rec) > 0 {
			if _, err := strconv.Atoi(strings.TrimSpace(rec[0])); err != nil {
				continue
			}
		}

		pkg, err := parsePackage(rec)
		if err != nil {
			return nil, fmt.Errorf("read packages: line %d: %w", line, err)
		}
		out = append(out, pkg)
	}
	return out, nil
}

func parsePackage(rec []string) (*domain.Package, error) {
	if len(rec) < packageFields-1 || len(rec) > packageFields {
		return nil, fmt.Errorf("expected %d fields, got %d: %w", packageFields, len(rec), domain.ErrMalformedInput)
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	notes := ""
	if len(rec) == packageFields {
		notes = rec[7]
	}

	id, err := strconv.Atoi(rec[0])
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid package_id %q: %w", rec[0], domain.ErrMalformedInput)
	}
	dest := strings.Join(strings.Fields(rec[1]), " ")
	if dest == "" {
		return nil, fmt.Errorf("package_id=%d: destination cannot be empty: %w", id, domain.ErrMalformedInput)
	}
	deadline, err := domain.ParseDeadline(rec[5])
	if err != nil {
		return nil, fmt.Errorf("package_id=%d: %w", id, err)
	}
	mass, err := strconv.ParseFloat(rec[6], 64)
	if err != nil || mass < 0 {
		return nil, fmt.Errorf("package_id=%d: invalid mass %q: %w", id, rec[6], domain.ErrMalformedInput)
	}
	constraint, err := domain.ParseConstraint(notes)
	if err != nil {
		return nil, fmt.Errorf("package_id=%d: %w", id, err)
	}

	return &domain.Package{
		PackageID:   id,
		Destination: dest,
		City:        rec[2],
		State:       rec[3],
		Zip:         rec[4],
		Deadline:    deadline,
		Mass:        mass,
		Notes:       notes,
		Constraint:  constraint,
		Status:      domain.StatusAtHub,
	}, nil
}
