package config

import "errors"

// Sentinels wrapped by Load and Validate. Defects in weights, bands or
// buckets surface as *model.ConfigurationError instead; see IsScoringError.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
