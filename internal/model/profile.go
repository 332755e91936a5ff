package model

// Priority is the intervention urgency attached to a cluster.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ClusterProfile is the static narrative attached to a cluster.
type ClusterProfile struct {
	ID              ClusterID `json:"id"`
	Name            string    `json:"name"`
	Summary         string    `json:"summary"` // one line
	Description     string    `json:"description"`
	Headline        string    `json:"headline"`
	Priority        Priority  `json:"priority"`
	Characteristics []string  `json:"characteristics"`
	Actions         []string  `json:"actions"`
	Recommendation  string    `json:"recommendation"` // markdown
}

// Classification is the result of classifying one feature vector.
type Classification struct {
	RequestID string         `json:"request_id"`
	Features  Features       `json:"features"`
	Scaled    []float64      `json:"scaled"`
	Cluster   ClusterID      `json:"cluster_id"`
	Distances []float64      `json:"distances"`
	Profile   ClusterProfile `json:"profile"`
}
