package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintRequiresVehicle
	ConstraintRequiresGroup
	ConstraintDelayedUntil
	ConstraintAddressCorrection
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintNone:
		return "none"
	case ConstraintRequiresVehicle:
		return "requires_vehicle"
	case ConstraintRequiresGroup:
		return "requires_group"
	case ConstraintDelayedUntil:
		return "delayed_until"
	case ConstraintAddressCorrection:
		return "address_correction"
	default:
		return fmt.Sprintf("constraint(%d)", int(k))
	}
}

// Street address plus the postal fields carried for reporting.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Structured form of a package's handling note, parsed once at load time.
// Only the fields matching Kind are meaningful:
//   - RequiresVehicle: TruckID
//   - RequiresGroup: With
//   - DelayedUntil: Until
//   - AddressCorrection: Until (time the corrected address is known) and Address
type Constraint struct {
	Kind    ConstraintKind
	TruckID int
	With    []int
	Until   time.Duration
	Address *Address
}

var (
	vehicleNoteRe = regexp.MustCompile(`(?i)can only be on truck\s+(\d+)`)
	groupNoteRe   = regexp.MustCompile(`(?i)must be delivered with\s+(.*)$`)
	delayedNoteRe = regexp.MustCompile(`(?i)delayed`)
	wrongAddrRe   = regexp.MustCompile(`(?i)wrong address`)
	clockTokenRe  = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2})(\s*[ap]m)?\b`)
	idTokenRe     = regexp.MustCompile(`\d+`)
)

// ParseConstraint turns a raw handling note into a Constraint.
// An empty note yields ConstraintNone; an unrecognised note is malformed input.
// Address corrections come back without an Address; the loader supplies it.
func ParseConstraint(notes string) (Constraint, error) {
	n := strings.TrimSpace(notes)
	if n == "" {
		return Constraint{Kind: ConstraintNone}, nil
	}

	if m := vehicleNoteRe.FindStringSubmatch(n); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			return Constraint{}, fmt.Errorf("parse constraint %q: invalid truck id: %w", notes, ErrMalformedInput)
		}
		return Constraint{Kind: ConstraintRequiresVehicle, TruckID: id}, nil
	}

	if m := groupNoteRe.FindStringSubmatch(n); m != nil {
		tokens := idTokenRe.FindAllString(m[1], -1)
		if len(tokens) == 0 {
			return Constraint{}, fmt.Errorf("parse constraint %q: no package ids: %w", notes, ErrMalformedInput)
		}
		with := make([]int, 0, len(tokens))
		for _, tok := range tokens {
			id, err := strconv.Atoi(tok)
			if err != nil || id <= 0 {
				return Constraint{}, fmt.Errorf("parse constraint %q: invalid package id %q: %w", notes, tok, ErrMalformedInput)
			}
			with = append(with, id)
		}
		return Constraint{Kind: ConstraintRequiresGroup, With: with}, nil
	}

	if delayedNoteRe.MatchString(n) {
		m := clockTokenRe.FindStringSubmatch(n)
		if m == nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: missing arrival time: %w", notes, ErrMalformedInput)
		}
		until, err := ParseClock(m[1] + m[2])
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", notes, err)
		}
		return Constraint{Kind: ConstraintDelayedUntil, Until: until}, nil
	}

	if wrongAddrRe.MatchString(n) {
		c := Constraint{Kind: ConstraintAddressCorrection}
		if m := clockTokenRe.FindStringSubmatch(n); m != nil {
			at, err := ParseClock(m[1] + m[2])
			if err != nil {
				return Constraint{}, fmt.Errorf("parse constraint %q: %w", notes, err)
			}
			c.Until = at
		}
		return c, nil
	}

	return Constraint{}, fmt.Errorf("parse constraint %q: unrecognised note: %w", notes, ErrMalformedInput)
}
