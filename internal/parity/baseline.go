package parity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gocarina/gocsv"
)

// ErrBaselineDrift indicates errors that moved away from a stored baseline.
var ErrBaselineDrift = errors.New("parity: errors differ from baseline")

// DefaultBaselineTolerance is the relative drift CompareBaseline allows.
const DefaultBaselineTolerance = 0.01

// DriftError describes one statistic that left its baseline band.
type DriftError struct {
	Field     string
	Current   float64
	Baseline  float64
	Tolerance float64
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s changed: %.2e vs baseline %.2e (diff %.2e, tolerance %.2e)",
		e.Field, e.Current, e.Baseline, math.Abs(e.Current-e.Baseline), e.Tolerance)
}

func (e *DriftError) Unwrap() error {
	return ErrBaselineDrift
}

// CompareBaseline checks the max and max-hero errors of current against
// baseline. Each may move by rel times its baseline value, or by rel
// absolutely when the baseline is zero. Drift in either direction fails.
func CompareBaseline(current, baseline *Report, rel float64) error {
	var errs []error
	check := func(field string, cur, base float64) {
		tol := rel * base
		if base <= 0 {
			tol = rel
		}
		if math.Abs(cur-base) > tol {
			errs = append(errs, &DriftError{Field: field, Current: cur, Baseline: base, Tolerance: tol})
		}
	}
	check("max_error", current.MaxError, baseline.MaxError)
	check("max_hero_error", current.MaxHeroError, baseline.MaxHeroError)
	return errors.Join(errs...)
}

// SaveBaseline writes r as indented JSON.
func SaveBaseline(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBaseline reads a report written by SaveBaseline.
func LoadBaseline(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parity: baseline %s: %w", path, err)
	}
	return &r, nil
}

// WriteFrameCSV writes one row per FrameError with a header.
func WriteFrameCSV(w io.Writer, r *Report) error {
	rows := r.FrameErrors
	if rows == nil {
		rows = []FrameError{}
	}
	return gocsv.Marshal(&rows, w)
}
