package plan

import "errors"

// ErrInvalidPlan is returned when a plan document cannot be parsed.
var ErrInvalidPlan = errors.New("plan: invalid plan document")
