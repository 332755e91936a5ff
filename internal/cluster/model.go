package cluster

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/faskes-equity/internal/model"
)

// MetricEuclidean is the only distance metric the trainer uses.
const MetricEuclidean = "euclidean"

// Model is a fixed partition of scaled feature space into k clusters, one
// centroid per cluster. It is immutable after construction.
type Model struct {
	centroids [][]float64
}

// NewModel builds a Model from k centroids of equal dimension.
func NewModel(centroids [][]float64) (*Model, error) {
	if len(centroids) == 0 {
		return nil, eris.Wrap(ErrConfiguration, "cluster: model has no centroids")
	}
	dim := len(centroids[0])
	if dim == 0 {
		return nil, eris.Wrap(ErrConfiguration, "cluster: centroid 0 is empty")
	}
	cs := make([][]float64, len(centroids))
	for i, c := range centroids {
		if len(c) != dim {
			return nil, eris.Wrapf(ErrShapeMismatch, "cluster: centroid %d has %d dims, want %d", i, len(c), dim)
		}
		for j, v := range c {
			if !finite(v) {
				return nil, eris.Wrapf(ErrConfiguration, "cluster: centroid %d dim %d is not finite", i, j)
			}
		}
		cs[i] = append([]float64(nil), c...)
	}
	return &Model{centroids: cs}, nil
}

// K returns the number of clusters.
func (m *Model) K() int {
	if m == nil {
		return 0
	}
	return len(m.centroids)
}

// Dim returns the dimensionality of the centroids.
func (m *Model) Dim() int {
	if m == nil || len(m.centroids) == 0 {
		return 0
	}
	return len(m.centroids[0])
}

// Centroid returns a copy of the centroid for id.
func (m *Model) Centroid(id model.ClusterID) ([]float64, error) {
	if m.K() == 0 {
		return nil, eris.Wrap(ErrModelNotLoaded, "cluster: model not loaded")
	}
	if id < 0 || int(id) >= len(m.centroids) {
		return nil, eris.Wrapf(ErrUnknownCluster, "cluster: id %d outside [0, %d)", id, len(m.centroids))
	}
	return append([]float64(nil), m.centroids[id]...), nil
}

// Assign returns the cluster whose centroid is nearest to scaled.
// Ties go to the lowest cluster id.
func (m *Model) Assign(scaled []float64) (model.ClusterID, error) {
	sq, err := m.sqDistances(scaled)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(sq); i++ {
		// strict < keeps the earlier index on ties
		if sq[i] < sq[best] {
			best = i
		}
	}
	return model.ClusterID(best), nil
}

// Distances returns the Euclidean distance from scaled to every centroid, in
// cluster id order.
func (m *Model) Distances(scaled []float64) ([]float64, error) {
	sq, err := m.sqDistances(scaled)
	if err != nil {
		return nil, err
	}
	for i, d := range sq {
		sq[i] = math.Sqrt(d)
	}
	return sq, nil
}

// sqDistances fails with ErrInvalidInput when a distance overflows, since
// every centroid would then compare equal.
func (m *Model) sqDistances(scaled []float64) ([]float64, error) {
	if err := m.check(scaled); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.centroids))
	for i, c := range m.centroids {
		d := sqDist(scaled, c)
		if math.IsInf(d, 0) {
			return nil, eris.Wrapf(ErrInvalidInput, "cluster: distance to centroid %d overflows", i)
		}
		out[i] = d
	}
	return out, nil
}

func (m *Model) check(scaled []float64) error {
	if m.K() == 0 {
		return eris.Wrap(ErrModelNotLoaded, "cluster: model not loaded")
	}
	if len(scaled) != m.Dim() {
		return eris.Wrapf(ErrShapeMismatch, "cluster: got %d dims, model expects %d", len(scaled), m.Dim())
	}
	for i, v := range scaled {
		if !finite(v) {
			return eris.Wrapf(ErrInvalidInput, "cluster: scaled dim %d is not finite", i)
		}
	}
	return nil
}

func sqDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}
