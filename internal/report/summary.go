// Package report computes the aggregate statistics shown alongside the
// classifier: per-cluster counts and means over the reference dataset.
package report

import (
	"sort"

	"github.com/sells-group/faskes-equity/internal/model"
)

// ClusterStats aggregates the rows stored under one cluster id.
type ClusterStats struct {
	Cluster                 model.ClusterID `json:"cluster"`
	Regions                 int             `json:"regions"`
	MeanFacilityCount       float64         `json:"mean_facility_count"`
	MeanVisitCount          float64         `json:"mean_visit_count"`
	MeanFacilityWeight      float64         `json:"mean_facility_weight"`
	MeanTotalFacilityWeight float64         `json:"mean_total_facility_weight"`
}

// Summary is the full aggregate report.
type Summary struct {
	Rows            int            `json:"rows"`
	Provinces       int            `json:"provinces"`
	Clusters        int            `json:"clusters"`
	TotalFacilities int64          `json:"total_facilities"`
	TotalVisits     int64          `json:"total_visits"`
	PerCluster      []ClusterStats `json:"per_cluster"`
}

// Count returns the number of regions stored under id, or 0.
func (s Summary) Count(id model.ClusterID) int {
	for _, c := range s.PerCluster {
		if c.Cluster == id {
			return c.Regions
		}
	}
	return 0
}

// Summarize groups regions by their stored cluster id. Rows are never
// re-classified. PerCluster is sorted by cluster id.
func Summarize(regions []model.Region) Summary {
	type acc struct {
		n                 int
		fac, vis, mw, tot float64
	}
	groups := make(map[model.ClusterID]*acc)
	provinces := make(map[string]struct{})

	var totalFac, totalVis float64
	for _, r := range regions {
		a, ok := groups[r.Cluster]
		if !ok {
			a = &acc{}
			groups[r.Cluster] = a
		}
		a.n++
		a.fac += r.Features.FacilityCount
		a.vis += r.Features.VisitCount
		a.mw += r.Features.MeanFacilityWeight
		a.tot += r.Features.TotalFacilityWeight

		provinces[r.Province] = struct{}{}
		totalFac += r.Features.FacilityCount
		totalVis += r.Features.VisitCount
	}

	s := Summary{
		Rows:            len(regions),
		Provinces:       len(provinces),
		Clusters:        len(groups),
		TotalFacilities: int64(totalFac),
		TotalVisits:     int64(totalVis),
		PerCluster:      make([]ClusterStats, 0, len(groups)),
	}
	for id, a := range groups {
		n := float64(a.n)
		s.PerCluster = append(s.PerCluster, ClusterStats{
			Cluster:                 id,
			Regions:                 a.n,
			MeanFacilityCount:       a.fac / n,
			MeanVisitCount:          a.vis / n,
			MeanFacilityWeight:      a.mw / n,
			MeanTotalFacilityWeight: a.tot / n,
		})
	}
	sort.Slice(s.PerCluster, func(i, j int) bool { return s.PerCluster[i].Cluster < s.PerCluster[j].Cluster })
	return s
}
