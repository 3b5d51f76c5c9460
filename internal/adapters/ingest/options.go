package ingest

import "github.com/okian/abcboard/pkg/logger"

// Option applies a configuration option to a Reader.
type Option func(*Reader)

// WithLegacyScale marks group scores as recorded on the 0-3 survey scale.
func WithLegacyScale(legacy bool) Option {
	return func(r *Reader) { r.legacy = legacy }
}

// WithLogger sets the logger used to report rejected records.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}
