package cluster

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/faskes-equity/internal/model"
)

// Describer resolves cluster ids to their static profiles.
type Describer interface {
	Describe(id model.ClusterID) (model.ClusterProfile, error)
	Validate(k int) error
}

// Engine bundles the loaded scaler, model, and knowledge base. It is built
// once at startup and shared read-only by every request.
type Engine struct {
	scaler   *Scaler
	model    *Model
	profiles Describer
}

// NewEngine checks that the three parts agree with each other and with the
// fixed feature order.
func NewEngine(s *Scaler, m *Model, kb Describer) (*Engine, error) {
	if s == nil || m == nil || kb == nil {
		return nil, eris.Wrap(ErrModelNotLoaded, "cluster: engine requires scaler, model and knowledge base")
	}
	if s.Dim() != model.FeatureCount {
		return nil, eris.Wrapf(ErrShapeMismatch, "cluster: scaler has %d features, want %d", s.Dim(), model.FeatureCount)
	}
	if m.Dim() != s.Dim() {
		return nil, eris.Wrapf(ErrShapeMismatch, "cluster: model has %d dims, scaler has %d", m.Dim(), s.Dim())
	}
	if err := kb.Validate(m.K()); err != nil {
		return nil, err
	}
	return &Engine{scaler: s, model: m, profiles: kb}, nil
}

// K returns the number of clusters in the loaded model.
func (e *Engine) K() int {
	if e == nil {
		return 0
	}
	return e.model.K()
}

// Scaler returns the loaded scaler.
func (e *Engine) Scaler() *Scaler {
	if e == nil {
		return nil
	}
	return e.scaler
}

// Model returns the loaded model.
func (e *Engine) Model() *Model {
	if e == nil {
		return nil
	}
	return e.model
}

// Describe returns the profile for id.
func (e *Engine) Describe(id model.ClusterID) (model.ClusterProfile, error) {
	if e == nil {
		return model.ClusterProfile{}, eris.Wrap(ErrModelNotLoaded, "cluster: engine not loaded")
	}
	if id < 0 || int(id) >= e.model.K() {
		return model.ClusterProfile{}, eris.Wrapf(ErrUnknownCluster, "cluster: id %d outside [0, %d)", id, e.model.K())
	}
	return e.profiles.Describe(id)
}

// Classify scales f, assigns the nearest cluster, and attaches its profile.
func (e *Engine) Classify(f model.Features) (*model.Classification, error) {
	if e == nil {
		return nil, eris.Wrap(ErrModelNotLoaded, "cluster: engine not loaded")
	}
	if err := f.Check(); err != nil {
		return nil, eris.Wrapf(ErrInvalidInput, "cluster: %v", err)
	}

	scaled, err := e.scaler.Scale(f.Vector())
	if err != nil {
		return nil, err
	}
	id, err := e.model.Assign(scaled)
	if err != nil {
		return nil, err
	}
	dists, err := e.model.Distances(scaled)
	if err != nil {
		return nil, err
	}
	profile, err := e.Describe(id)
	if err != nil {
		return nil, err
	}

	c := &model.Classification{
		RequestID: uuid.New().String(),
		Features:  f,
		Scaled:    scaled,
		Cluster:   id,
		Distances: dists,
		Profile:   profile,
	}

	zap.L().Info("cluster: region classified",
		zap.String("request_id", c.RequestID),
		zap.Int("cluster", int(id)),
		zap.String("cluster_name", profile.Name),
		zap.Float64s("scaled", scaled),
		zap.Float64("distance", dists[id]),
	)

	return c, nil
}
