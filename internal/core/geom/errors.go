package geom

import "errors"

var (
	ErrDegeneratePolygon = errors.New("degenerate polygon")
	ErrInvalidShape      = errors.New("invalid shape parameters")
)
