package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters holds the engine tunables loaded from parameters.yaml.
// Every field has a default so a missing file yields a working engine.
type Parameters struct {
	// Weekdays is the canonical weekday ordering used for schedule maps.
	Weekdays []string `yaml:"weekdays"`
	// Interval is the bar granularity of the dataset, e.g. "1d", "1h", "15min".
	Interval string `yaml:"interval"`
	// DecayWindowDays is the +-N day horizon for event proximity decay.
	DecayWindowDays int `yaml:"decay_window_days"`
	// StaleDaysThreshold marks symbols whose latest price lags the dataset
	// by more than this many days.
	StaleDaysThreshold int `yaml:"stale_days_threshold"`
	// SmoothMaxGapDays caps the day-gaps the edge smoother re-centers.
	// 0 means unlimited (always re-center).
	SmoothMaxGapDays int `yaml:"smooth_max_gap_days"`
	// RawMode selects boolean (true) or scaled float (false) annotation output.
	RawMode bool `yaml:"raw_mode"`
	// CalendarFile is the JSON file with holiday and macro event dates.
	CalendarFile string `yaml:"calendar_file"`
	// MarketdataFile is the JSON dataset snapshot with symbols and prices.
	MarketdataFile string `yaml:"marketdata_file"`
	// RefreshCron is the cron spec for the periodic rebuild job.
	RefreshCron string `yaml:"refresh_cron"`
}

// DefaultParameters returns the built-in parameter set.
func DefaultParameters() *Parameters {
	return &Parameters{
		Weekdays: []string{
			"monday", "tuesday", "wednesday", "thursday",
			"friday", "saturday", "sunday",
		},
		Interval:           "1d",
		DecayWindowDays:    5,
		StaleDaysThreshold: 14,
		SmoothMaxGapDays:   0,
		RawMode:            true,
		CalendarFile:       "calendar.json",
		MarketdataFile:     "marketdata.json",
		RefreshCron:        "0 0 5 * * *",
	}
}

// LoadParameters reads parameters.yaml from path, falling back to defaults
// for absent fields. A missing file is not an error; a malformed one is.
func LoadParameters(path string) (*Parameters, error) {
	params := DefaultParameters()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return params, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file %s: %w", path, err)
	}

	if len(params.Weekdays) != 7 {
		return nil, fmt.Errorf("parameters: weekdays must list all 7 days, got %d", len(params.Weekdays))
	}
	if params.DecayWindowDays <= 0 {
		return nil, fmt.Errorf("parameters: decay_window_days must be positive, got %d", params.DecayWindowDays)
	}

	return params, nil
}
