package model

import "errors"

// Error kinds shared by the loader, preprocessor, KPI engine and table files.
// Callers match them with errors.Is.
var (
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrMalformedRecord       = errors.New("malformed record")
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrEmptyAggregationGroup = errors.New("empty aggregation group")
	ErrInvalidMatch          = errors.New("match does not have exactly two teams")
)
