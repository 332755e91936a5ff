// Package model defines the domain types shared by the classifier, the
// reference dataset loader, and the reporting layer.
package model

import (
	"math"

	"github.com/rotisserie/eris"
)

// Feature names in the order the scaler and the cluster model were fit with.
const (
	FeatureFacilityCount       = "facility_count"
	FeatureVisitCount          = "visit_count"
	FeatureMeanFacilityWeight  = "mean_facility_weight"
	FeatureTotalFacilityWeight = "total_facility_weight"
)

// FeatureNames is the fixed feature order. Artifacts must agree with it.
var FeatureNames = []string{
	FeatureFacilityCount,
	FeatureVisitCount,
	FeatureMeanFacilityWeight,
	FeatureTotalFacilityWeight,
}

// FeatureCount is the dimensionality of a raw feature vector.
const FeatureCount = 4

// Features holds the four health-facility indicators for a region.
type Features struct {
	FacilityCount       float64 `json:"facility_count"`
	VisitCount          float64 `json:"visit_count"`
	MeanFacilityWeight  float64 `json:"mean_facility_weight"`
	TotalFacilityWeight float64 `json:"total_facility_weight"`
}

// Vector returns the features in FeatureNames order.
func (f Features) Vector() []float64 {
	return []float64{f.FacilityCount, f.VisitCount, f.MeanFacilityWeight, f.TotalFacilityWeight}
}

// Check reports the first feature that is negative or not finite.
func (f Features) Check() error {
	for i, v := range f.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return eris.Errorf("%s must be finite, got %v", FeatureNames[i], v)
		}
		if v < 0 {
			return eris.Errorf("%s must be >= 0, got %v", FeatureNames[i], v)
		}
	}
	return nil
}

// ClusterID identifies a pre-computed equity cluster in [0, k).
type ClusterID int

// Region is one row of the reference dataset.
type Region struct {
	Province string    `json:"province"`
	Cluster  ClusterID `json:"cluster"`
	Features Features  `json:"features"`
}
