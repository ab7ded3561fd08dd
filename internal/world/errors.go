package world

import (
	"errors"
	"fmt"
)

var (
	// ErrPlacementRejected is wrapped by every placement rejection.
	ErrPlacementRejected = errors.New("placement rejected")

	ErrOutOfBounds  = fmt.Errorf("%w: cell out of bounds", ErrPlacementRejected)
	ErrMountain     = fmt.Errorf("%w: cell is a mountain", ErrPlacementRejected)
	ErrOccupied     = fmt.Errorf("%w: cell already cultivated", ErrPlacementRejected)
	ErrRuinRequired = fmt.Errorf("%w: shape must cover a ruin", ErrPlacementRejected)

	// ErrInvalidLayout is returned for layouts with out-of-bounds or overlapping sites.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrInconsistentArea signals a broken area registry. Always a defect.
	ErrInconsistentArea = errors.New("inconsistent area registry")
)
