package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/abcboard/internal/domain/category"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/scoring"
)

// Validate checks process settings and the scoring configuration. Scoring
// defects come back as *model.ConfigurationError so callers can name the
// failing weight, band or bucket.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.DataFormat) {
	case "", "json", "csv":
	default:
		return fmt.Errorf("%w: unknown data_format %q", ErrInvalidConfig, c.DataFormat)
	}
	if c.ReloadIntervalSec < 0 {
		return fmt.Errorf("%w: reload_interval_sec must not be negative", ErrInvalidConfig)
	}
	if c.MaxListLimit < 1 {
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	}
	for k := range c.Weights {
		switch model.GroupKey(k) {
		case model.GroupA, model.GroupB, model.GroupC, model.GroupD:
		default:
			return model.NewConfigurationError("weights", k, "unknown group")
		}
	}
	if err := scoring.ValidateWeights(c.WeightConfig()); err != nil {
		return err
	}
	bands := c.BandList()
	if err := category.Validate(bands, model.ScaleMin, model.ScaleMax); err != nil {
		return err
	}
	if err := pipeline.Validate(c.Buckets, bands); err != nil {
		return err
	}
	found := false
	for _, b := range bands {
		if b.Key == c.RiskCategory {
			found = true
			break
		}
	}
	if !found {
		return model.NewConfigurationError("bands", c.RiskCategory, "risk_category does not name a band")
	}
	return nil
}

// IsScoringError reports whether err came from the scoring configuration
// rather than from process settings.
func IsScoringError(err error) bool {
	return errors.Is(err, model.ErrConfiguration)
}
