// Package dataset loads the reference table of historical regions with their
// stored cluster assignments.
package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/sells-group/faskes-equity/internal/cluster"
)

// Columns names the required source columns. Names are compared after
// NormalizeHeader, so "Jumlah Faskes" matches "jumlah_faskes".
type Columns struct {
	Province            string `yaml:"province" mapstructure:"province"`
	Cluster             string `yaml:"cluster" mapstructure:"cluster"`
	FacilityCount       string `yaml:"facility_count" mapstructure:"facility_count"`
	VisitCount          string `yaml:"visit_count" mapstructure:"visit_count"`
	MeanFacilityWeight  string `yaml:"mean_facility_weight" mapstructure:"mean_facility_weight"`
	TotalFacilityWeight string `yaml:"total_facility_weight" mapstructure:"total_facility_weight"`
}

// DefaultColumns matches the headers of the published fitur.csv export.
func DefaultColumns() Columns {
	return Columns{
		Province:            "provinsi_faskes",
		Cluster:             "cluster",
		FacilityCount:       "jumlah_faskes",
		VisitCount:          "jumlah_kunjungan",
		MeanFacilityWeight:  "rata_bobot",
		TotalFacilityWeight: "total_bobot",
	}
}

// withDefaults fills empty names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Province == "" {
		c.Province = d.Province
	}
	if c.Cluster == "" {
		c.Cluster = d.Cluster
	}
	if c.FacilityCount == "" {
		c.FacilityCount = d.FacilityCount
	}
	if c.VisitCount == "" {
		c.VisitCount = d.VisitCount
	}
	if c.MeanFacilityWeight == "" {
		c.MeanFacilityWeight = d.MeanFacilityWeight
	}
	if c.TotalFacilityWeight == "" {
		c.TotalFacilityWeight = d.TotalFacilityWeight
	}
	return c
}

func (c Columns) ordered() []string {
	return []string{c.Province, c.Cluster, c.FacilityCount, c.VisitCount, c.MeanFacilityWeight, c.TotalFacilityWeight}
}

// NormalizeHeader trims, case-folds, and joins internal whitespace with "_".
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = cases.Fold().String(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// columnIndex holds the header position of each required column, in
// Columns.ordered order.
type columnIndex [6]int

// resolve maps the required columns onto header positions. Every missing
// column is reported in one ErrConfiguration.
func (c Columns) resolve(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeHeader(h)
		if _, seen := pos[n]; !seen {
			pos[n] = i
		}
	}

	var idx columnIndex
	var missing []string
	for i, name := range c.withDefaults().ordered() {
		p, ok := pos[NormalizeHeader(name)]
		if !ok {
			missing = append(missing, NormalizeHeader(name))
			continue
		}
		idx[i] = p
	}
	if len(missing) > 0 {
		return idx, eris.Wrapf(cluster.ErrConfiguration, "dataset: missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}
