package domain

import "errors"

// Error kinds shared by the store, the planner and the simulator.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// A key is absent from the package store or an address is unknown to the distance matrix.
	ErrNotFound = errors.New("not found")

	// A package was assigned to a truck whose manifest is already full.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// A package that already belongs to a truck was assigned again.
	ErrAlreadyAssigned = errors.New("package already assigned")

	// Annotations reference packages or trucks that cannot satisfy them.
	ErrConstraintViolation = errors.New("constraint violation")

	// A full delivery pass neither delivered nor assigned anything.
	ErrNoProgress = errors.New("no progress")

	// A record, annotation, deadline or clock value could not be parsed.
	ErrMalformedInput = errors.New("malformed input")
)
