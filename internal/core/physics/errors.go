package physics

import "errors"

var (
	// Body errors

	ErrInvalidMass = errors.New("mass must be positive or infinite")
	ErrNilBody     = errors.New("nil body")

	// Scene errors

	ErrIndexOutOfRange  = errors.New("body index out of range")
	ErrNegativeTimeStep = errors.New("time step must be non-negative")
	ErrBodyAttached     = errors.New("body already belongs to a scene")
	ErrStaleBody        = errors.New("body has been reaped")
	ErrForeignBody      = errors.New("body belongs to another scene")
	ErrDetachedBody     = errors.New("body has not been added to a scene")
	ErrSceneClosed      = errors.New("scene is closed")
)
