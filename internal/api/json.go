package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sells-group/faskes-equity/internal/cluster"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// errorKind names the taxonomy member err wraps.
func errorKind(err error) string {
	switch {
	case errors.Is(err, cluster.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, cluster.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, cluster.ErrDegenerateScale):
		return "degenerate_scale"
	case errors.Is(err, cluster.ErrModelNotLoaded):
		return "model_not_loaded"
	case errors.Is(err, cluster.ErrUnknownCluster):
		return "unknown_cluster"
	case errors.Is(err, cluster.ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}

// statusFor maps caller mistakes to 400 and everything else to 500.
func statusFor(err error) int {
	switch errorKind(err) {
	case "invalid_input", "shape_mismatch":
		return http.StatusBadRequest
	case "model_not_loaded":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
