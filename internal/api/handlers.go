package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/faskes-equity/internal/metrics"
	"github.com/sells-group/faskes-equity/internal/model"
)

// classifyRequest uses pointers so a missing field is rejected rather than
// read as zero.
type classifyRequest struct {
	FacilityCount       *float64 `json:"facility_count"`
	VisitCount          *float64 `json:"visit_count"`
	MeanFacilityWeight  *float64 `json:"mean_facility_weight"`
	TotalFacilityWeight *float64 `json:"total_facility_weight"`
}

func (req classifyRequest) features() (model.Features, []string) {
	var missing []string
	get := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}
	f := model.Features{
		FacilityCount:       get(model.FeatureFacilityCount, req.FacilityCount),
		VisitCount:          get(model.FeatureVisitCount, req.VisitCount),
		MeanFacilityWeight:  get(model.FeatureMeanFacilityWeight, req.MeanFacilityWeight),
		TotalFacilityWeight: get(model.FeatureTotalFacilityWeight, req.TotalFacilityWeight),
	}
	return f, missing
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ClassifyHandler assigns a cluster to the posted indicators.
func (s *Server) ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		metrics.ClassificationErrors.WithLabelValues("invalid_input").Inc()
		writeProblem(w, http.StatusBadRequest, "invalid request body", err.Error(), r.URL.Path)
		return
	}

	f, missing := req.features()
	if len(missing) > 0 {
		metrics.ClassificationErrors.WithLabelValues("invalid_input").Inc()
		writeProblem(w, http.StatusBadRequest, "missing fields", "required: "+strings.Join(missing, ", "), r.URL.Path)
		return
	}

	c, err := s.engine.Classify(f)
	if err != nil {
		kind := errorKind(err)
		status := statusFor(err)
		metrics.ClassificationErrors.WithLabelValues(kind).Inc()
		if status >= http.StatusInternalServerError {
			zap.L().Error("api: classification failed", zap.String("kind", kind), zap.Error(err))
		}
		writeProblem(w, status, "classification failed", err.Error(), r.URL.Path)
		return
	}

	metrics.Classifications.WithLabelValues(strconv.Itoa(int(c.Cluster))).Inc()
	writeJSON(w, http.StatusOK, c)
}

// ClustersHandler lists the profile of every cluster in the loaded model.
func (s *Server) ClustersHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]model.ClusterProfile, 0, s.engine.K())
	for i := 0; i < s.engine.K(); i++ {
		p, err := s.engine.Describe(model.ClusterID(i))
		if err != nil {
			writeProblem(w, statusFor(err), "cluster lookup failed", err.Error(), r.URL.Path)
			return
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"k": s.engine.K(), "clusters": out})
}

// ClusterByIDHandler returns one profile plus its reference-dataset stats.
func (s *Server) ClusterByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid cluster id", err.Error(), r.URL.Path)
		return
	}
	p, err := s.engine.Describe(model.ClusterID(id))
	if err != nil {
		status := statusFor(err)
		if errorKind(err) == "unknown_cluster" {
			status = http.StatusNotFound
		}
		writeProblem(w, status, "cluster lookup failed", err.Error(), r.URL.Path)
		return
	}

	resp := map[string]any{"profile": p}
	for _, cs := range s.summary.PerCluster {
		if cs.Cluster == p.ID {
			resp["stats"] = cs
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// SummaryHandler returns the aggregate report over the reference dataset.
func (s *Server) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary)
}
