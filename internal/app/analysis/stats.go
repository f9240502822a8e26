package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// Thresholds of the qualitative statements in the report. They are
// presentation policy and must not be tuned.
const (
	HighMeanThreshold      = 0.5
	HighStdDevThreshold    = 0.2
	HighPressureIntensity  = 0.8
	MultipleZonesThreshold = 1000

	// kPaScale turns a normalized intensity into the displayed "pressure".
	kPaScale = 1000
)

// Stats are computed over normalized intensities.
type Stats struct {
	Mean              float64 `json:"mean"`
	Max               float64 `json:"max"`
	Min               float64 `json:"min"`
	StdDev            float64 `json:"std_dev"` // population
	HighPressureCount int     `json:"high_pressure_count"`
	PixelCount        int     `json:"pixel_count"`
}

func Compute(intensities []float64) (Stats, error) {
	if len(intensities) == 0 {
		return Stats{}, errors.Wrap(domain.ErrAnalysisFailed, "no intensities")
	}

	mean, std := stat.PopMeanStdDev(intensities, nil)
	if math.IsNaN(std) {
		// rounding can push a zero variance just below zero
		std = 0
	}
	high := floats.Count(func(v float64) bool { return v > HighPressureIntensity }, intensities)

	return Stats{
		Mean:              mean,
		Max:               floats.Max(intensities),
		Min:               floats.Min(intensities),
		StdDev:            std,
		HighPressureCount: high,
		PixelCount:        len(intensities),
	}, nil
}

func (s Stats) HighMean() bool      { return s.Mean > HighMeanThreshold }
func (s Stats) HighVariation() bool { return s.StdDev > HighStdDevThreshold }
func (s Stats) MultipleZones() bool { return s.HighPressureCount > MultipleZonesThreshold }
