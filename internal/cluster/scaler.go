package cluster

import (
	"math"

	"github.com/rotisserie/eris"
)

// Scaler is a fitted standardizer: scaled[i] = (x[i] - Mean[i]) / Scale[i].
// A Scaler is immutable after construction and safe for concurrent use.
type Scaler struct {
	mean  []float64
	scale []float64
}

// NewScaler builds a Scaler from per-feature means and scales.
func NewScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) == 0 {
		return nil, eris.Wrap(ErrConfiguration, "cluster: scaler has no features")
	}
	if len(mean) != len(scale) {
		return nil, eris.Wrapf(ErrShapeMismatch, "cluster: scaler has %d means and %d scales", len(mean), len(scale))
	}
	for i := range mean {
		if !finite(mean[i]) || !finite(scale[i]) {
			return nil, eris.Wrapf(ErrConfiguration, "cluster: scaler entry %d is not finite", i)
		}
		if scale[i] == 0 {
			return nil, eris.Wrapf(ErrDegenerateScale, "cluster: scale[%d] is zero", i)
		}
	}
	return &Scaler{
		mean:  append([]float64(nil), mean...),
		scale: append([]float64(nil), scale...),
	}, nil
}

// Dim returns the number of features the scaler was fit on.
func (s *Scaler) Dim() int {
	if s == nil {
		return 0
	}
	return len(s.mean)
}

// Means returns a copy of the per-feature means.
func (s *Scaler) Means() []float64 {
	return append([]float64(nil), s.mean...)
}

// Scales returns a copy of the per-feature scales.
func (s *Scaler) Scales() []float64 {
	return append([]float64(nil), s.scale...)
}

// Scale standardizes x. It never truncates or pads.
func (s *Scaler) Scale(x []float64) ([]float64, error) {
	if s == nil {
		return nil, eris.Wrap(ErrModelNotLoaded, "cluster: scaler not loaded")
	}
	if len(x) != len(s.mean) {
		return nil, eris.Wrapf(ErrShapeMismatch, "cluster: got %d features, scaler expects %d", len(x), len(s.mean))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if !finite(v) {
			return nil, eris.Wrapf(ErrInvalidInput, "cluster: feature %d is not finite", i)
		}
		if s.scale[i] == 0 {
			return nil, eris.Wrapf(ErrDegenerateScale, "cluster: scale[%d] is zero", i)
		}
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// Inverse maps a scaled vector back to raw feature units.
func (s *Scaler) Inverse(scaled []float64) ([]float64, error) {
	if s == nil {
		return nil, eris.Wrap(ErrModelNotLoaded, "cluster: scaler not loaded")
	}
	if len(scaled) != len(s.mean) {
		return nil, eris.Wrapf(ErrShapeMismatch, "cluster: got %d features, scaler expects %d", len(scaled), len(s.mean))
	}
	out := make([]float64, len(scaled))
	for i, v := range scaled {
		out[i] = v*s.scale[i] + s.mean[i]
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
