package model

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures_VectorOrder(t *testing.T) {
	f := Features{FacilityCount: 1, VisitCount: 2, MeanFacilityWeight: 3, TotalFacilityWeight: 4}
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Vector())
	assert.Len(t, FeatureNames, FeatureCount)
}

func TestFeatures_Check(t *testing.T) {
	tests := []struct {
		name    string
		in      Features
		wantErr string
	}{
		{name: "zero", in: Features{}},
		{name: "typical", in: Features{FacilityCount: 120, VisitCount: 5400, MeanFacilityWeight: 0.6, TotalFacilityWeight: 72}},
		{name: "negative", in: Features{VisitCount: -1}, wantErr: "visit_count must be >= 0"},
		{name: "nan", in: Features{MeanFacilityWeight: math.NaN()}, wantErr: "mean_facility_weight must be finite"},
		{name: "inf", in: Features{TotalFacilityWeight: math.Inf(1)}, wantErr: "total_facility_weight must be finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Check()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotEmpty(t, eris.Unpack(err).ErrRoot.Stack, "check errors carry a stack trace")
		})
	}
}
