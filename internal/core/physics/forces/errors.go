package forces

import "errors"

var (
	ErrInvalidConstant = errors.New("force constant must be finite")
	ErrSameBody        = errors.New("pair force needs two distinct bodies")
	ErrNilHandler      = errors.New("collision handler is nil")
	ErrInfiniteMass    = errors.New("point gravity needs finite masses")
)
