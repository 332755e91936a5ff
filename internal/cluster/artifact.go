package cluster

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/faskes-equity/internal/model"
)

// ScalerArtifact is the on-disk layout of a fitted standardizer.
//
//	features: [facility_count, visit_count, mean_facility_weight, total_facility_weight]
//	mean:  [m0, m1, m2, m3]
//	scale: [s0, s1, s2, s3]
//
// Features is optional; when present it must match model.FeatureNames.
type ScalerArtifact struct {
	Features []string  `yaml:"features,omitempty" json:"features,omitempty"`
	Mean     []float64 `yaml:"mean" json:"mean"`
	Scale    []float64 `yaml:"scale" json:"scale"`
}

// ModelArtifact is the on-disk layout of a nearest-centroid model.
//
//	k: 3
//	metric: euclidean
//	centroids:
//	  - [c00, c01, c02, c03]
//
// K must equal len(Centroids). Centroids live in scaled feature space.
type ModelArtifact struct {
	K         int         `yaml:"k" json:"k"`
	Metric    string      `yaml:"metric,omitempty" json:"metric,omitempty"`
	Centroids [][]float64 `yaml:"centroids" json:"centroids"`
}

// Scaler builds a validated Scaler from the artifact.
func (a ScalerArtifact) Scaler() (*Scaler, error) {
	if len(a.Features) > 0 && !slices.Equal(a.Features, model.FeatureNames) {
		return nil, eris.Wrapf(ErrConfiguration, "cluster: scaler features %v, want %v", a.Features, model.FeatureNames)
	}
	return NewScaler(a.Mean, a.Scale)
}

// Model builds a validated Model from the artifact.
func (a ModelArtifact) Model() (*Model, error) {
	if a.Metric != "" && !strings.EqualFold(a.Metric, MetricEuclidean) {
		return nil, eris.Wrapf(ErrConfiguration, "cluster: unsupported metric %q", a.Metric)
	}
	if a.K != len(a.Centroids) {
		return nil, eris.Wrapf(ErrConfiguration, "cluster: k=%d but %d centroids", a.K, len(a.Centroids))
	}
	return NewModel(a.Centroids)
}

// LoadScaler reads a scaler artifact from path.
func LoadScaler(path string) (*Scaler, error) {
	var a ScalerArtifact
	if err := readArtifact(path, &a); err != nil {
		return nil, err
	}
	s, err := a.Scaler()
	if err != nil {
		return nil, eris.Wrapf(err, "cluster: scaler %s", path)
	}
	return s, nil
}

// LoadModel reads a model artifact from path.
func LoadModel(path string) (*Model, error) {
	var a ModelArtifact
	if err := readArtifact(path, &a); err != nil {
		return nil, err
	}
	m, err := a.Model()
	if err != nil {
		return nil, eris.Wrapf(err, "cluster: model %s", path)
	}
	return m, nil
}

// SaveScaler writes s as a scaler artifact. The codec follows the extension.
func SaveScaler(path string, s *Scaler) error {
	return writeArtifact(path, ScalerArtifact{
		Features: model.FeatureNames,
		Mean:     s.Means(),
		Scale:    s.Scales(),
	})
}

// SaveModel writes m as a model artifact. The codec follows the extension.
func SaveModel(path string, m *Model) error {
	a := ModelArtifact{K: m.K(), Metric: MetricEuclidean}
	for i := 0; i < m.K(); i++ {
		c, err := m.Centroid(model.ClusterID(i))
		if err != nil {
			return err
		}
		a.Centroids = append(a.Centroids, c)
	}
	return writeArtifact(path, a)
}

func readArtifact(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(ErrConfiguration, "cluster: open artifact %s: %v", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return eris.Wrapf(ErrConfiguration, "cluster: read artifact %s: %v", path, err)
	}

	if isJSON(path) {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return eris.Wrapf(ErrConfiguration, "cluster: decode artifact %s: %v", path, err)
	}
	return nil
}

func writeArtifact(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return eris.Wrapf(err, "cluster: encode artifact %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "cluster: write artifact %s", path)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
