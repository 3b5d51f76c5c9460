// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Weights, bands and bucket rules live here and nowhere else; the domain
//   packages receive them as inputs.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/stats"
)

// BandConfig is the file form of a talent band.
type BandConfig struct {
	Key   string   `koanf:"key"`
	Label string   `koanf:"label"`
	Color string   `koanf:"color"`
	Lower *float64 `koanf:"lower"`
	Upper *float64 `koanf:"upper"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at the employee evaluation export.
	DataPath string `koanf:"data_path"`

	// DataFormat is json or csv. Empty means infer from the file extension.
	DataFormat string `koanf:"data_format"`

	// LegacyScale marks group scores recorded on the 0-3 survey scale.
	LegacyScale bool `koanf:"legacy_scale"`

	// ReloadIntervalSec re-reads DataPath periodically; 0 disables it.
	ReloadIntervalSec int `koanf:"reload_interval_sec"`

	// MaxListLimit caps ?limit on list endpoints.
	MaxListLimit int `koanf:"max_list_limit"`

	// Weights maps group keys (A, B, C, D) to their weight.
	Weights map[string]float64 `koanf:"weights"`

	// Bands is the talent category ladder.
	Bands []BandConfig `koanf:"bands"`

	// Buckets are the talent pipeline rules.
	Buckets []pipeline.Rule `koanf:"buckets"`

	// RiskCategory is the band key counted as "risk" in overviews and alerts.
	RiskCategory string `koanf:"risk_category"`

	// TopPerformerMin is the total score from which an employee is a top performer.
	TopPerformerMin float64 `koanf:"top_performer_min"`

	// LowDepartmentAverage raises a warning for departments averaging below it.
	LowDepartmentAverage float64 `koanf:"low_department_average"`

	// MaxRiskCount raises a danger alert when more employees are at risk.
	MaxRiskCount int `koanf:"max_risk_count"`
}

// New creates a Config holding the defaults of the ABC model.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DataPath:          "data/employees.json",
		ReloadIntervalSec: 0,
		MaxListLimit:      500,
		Weights: map[string]float64{
			"A": 0.25, // self-reflection survey
			"B": 0.35, // competency declaration
			"C": 0.30, // 360 review
			"D": 0.10, // verification
		},
		Bands:                DefaultBands(),
		Buckets:              DefaultBuckets(),
		RiskCategory:         "risk",
		TopPerformerMin:      8,
		LowDepartmentAverage: 5,
		MaxRiskCount:         20,
	}
}

// DefaultBands returns the seven-tier talent ladder on the 0-10 scale.
func DefaultBands() []BandConfig {
	return []BandConfig{
		{Key: "superstar", Label: "Siêu Sao", Color: "#FFD700", Lower: model.Bound(8)},
		{Key: "golden_potential", Label: "Tiềm Năng Vàng", Color: "#FFA500", Lower: model.Bound(7), Upper: model.Bound(8)},
		{Key: "solid_pillar", Label: "Trụ Cột Vững", Color: "#4169E1", Lower: model.Bound(6.5), Upper: model.Bound(7)},
		{Key: "rough_diamond", Label: "Kim Cương Thô", Color: "#9370DB", Lower: model.Bound(5.5), Upper: model.Bound(6.5)},
		{Key: "performer", Label: "Người Thực Thi", Color: "#32CD32", Lower: model.Bound(5), Upper: model.Bound(5.5)},
		{Key: "developing", Label: "Cần Phát Triển", Color: "#FFA07A", Lower: model.Bound(4), Upper: model.Bound(5)},
		{Key: "risk", Label: "Rủi Ro Cao", Color: "#DC143C", Upper: model.Bound(4)},
	}
}

// DefaultBuckets returns the talent pipeline rules.
func DefaultBuckets() []pipeline.Rule {
	return []pipeline.Rule{
		{Name: pipeline.ReadyForPromotion, Categories: []string{"superstar", "golden_potential"}},
		{Name: pipeline.HighPotential, Categories: []string{"rough_diamond"}},
		{Name: pipeline.NeedsDevelopment, Categories: []string{"developing"}},
		// top slice of solid_pillar [6.5, 7)
		{Name: pipeline.CriticalRetention, Categories: []string{"solid_pillar"}, MinScoreExclusive: model.Bound(6.75)},
	}
}

// WeightConfig converts Weights into the domain form.
func (c *Config) WeightConfig() model.WeightConfig {
	out := make(model.WeightConfig, len(c.Weights))
	for k, w := range c.Weights {
		out[model.GroupKey(k)] = w
	}
	return out
}

// BandList converts Bands into the domain form.
func (c *Config) BandList() []model.Band {
	out := make([]model.Band, len(c.Bands))
	for i, b := range c.Bands {
		out[i] = model.Band{Key: b.Key, Label: b.Label, Color: b.Color, Lower: b.Lower, Upper: b.Upper}
	}
	return out
}

// AlertThresholds returns the alert settings.
func (c *Config) AlertThresholds() stats.AlertThresholds {
	return stats.AlertThresholds{LowDepartmentAverage: c.LowDepartmentAverage, MaxRiskCount: c.MaxRiskCount}
}
