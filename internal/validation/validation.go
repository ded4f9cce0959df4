// Package validation checks command line options before any I/O happens.
package validation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/revol-ver/internal/dateutils"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/parsererror"
)

// Options are the raw sync flags as typed by the user.
type Options struct {
	Period          string
	Source          string
	Date            string
	Output          string
	DontDeduplicate bool
}

// Plan is the validated form of Options.
type Plan struct {
	Period      models.Period
	Source      string
	WriteDB     bool
	WriteExport bool
	Deduplicate bool
}

// ValidateOptions checks option values and combinations and resolves the target
// period in loc. Every failure is a *parsererror.ConfigError.
func ValidateOptions(opts Options, loc *time.Location) (Plan, error) {
	var plan Plan

	source := strings.ToLower(strings.TrimSpace(opts.Source))
	switch source {
	case models.SourceWebRequest, models.SourceFile:
		plan.Source = source
	default:
		return Plan{}, &parsererror.ConfigError{
			Option: "source",
			Reason: fmt.Sprintf("unsupported value %q (must be %s or %s)", opts.Source, models.SourceWebRequest, models.SourceFile),
		}
	}

	output := strings.ToLower(strings.TrimSpace(opts.Output))
	switch output {
	case models.OutputDB:
		plan.WriteDB = true
	case models.OutputExcel:
		plan.WriteExport = true
	case models.OutputAll:
		plan.WriteDB = true
		plan.WriteExport = true
	default:
		return Plan{}, &parsererror.ConfigError{
			Option: "output",
			Reason: fmt.Sprintf("unsupported value %q (must be %s, %s or %s)", opts.Output, models.OutputDB, models.OutputExcel, models.OutputAll),
		}
	}

	if opts.DontDeduplicate && plan.WriteDB {
		return Plan{}, &parsererror.ConfigError{
			Option: "dont-deduplicate",
			Reason: "cannot be used when writing to the database",
		}
	}
	plan.Deduplicate = !opts.DontDeduplicate

	period, err := resolvePeriod(opts, loc)
	if err != nil {
		return Plan{}, err
	}
	plan.Period = period

	return plan, nil
}

func resolvePeriod(opts Options, loc *time.Location) (models.Period, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Period)) {
	case models.PeriodAll:
		return models.AllPeriod(), nil
	case models.PeriodMonth:
		if strings.TrimSpace(opts.Date) == "" {
			return models.Period{}, &parsererror.ConfigError{
				Option: "date",
				Reason: "required when period is month",
			}
		}
		year, month, err := dateutils.ParseMonth(strings.TrimSpace(opts.Date))
		if err != nil {
			return models.Period{}, &parsererror.ConfigError{Option: "date", Reason: err.Error()}
		}
		return models.Period{
			Kind:   models.PeriodMonth,
			Year:   year,
			Month:  month,
			Cutoff: dateutils.MonthEndCutoff(year, month, loc),
		}, nil
	default:
		return models.Period{}, &parsererror.ConfigError{
			Option: "period",
			Reason: fmt.Sprintf("unsupported value %q (must be %s or %s)", opts.Period, models.PeriodMonth, models.PeriodAll),
		}
	}
}

// IsValidPath checks if a given path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}
