package ingest

import "errors"

var (
	// ErrUnsupportedFormat indicates a source whose format is neither json nor csv.
	ErrUnsupportedFormat = errors.New("unsupported data format")
	// ErrMalformedSource indicates a source that cannot be parsed at all.
	ErrMalformedSource = errors.New("malformed data source")
	// ErrMissingColumn indicates a CSV export without a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Rejection reasons, used as metric labels.
const (
	ReasonMissingField  = "missing_field"
	ReasonInvalidEmail  = "invalid_email"
	ReasonTooLong       = "too_long"
	ReasonScoreRange    = "score_out_of_range"
	ReasonMalformed     = "malformed"
	ReasonDuplicateCode = "duplicate_code"
	ReasonDuplicateID   = "duplicate_id"
)
