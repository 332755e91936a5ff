package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/faskes-equity/internal/dataset"
	"github.com/sells-group/faskes-equity/internal/model"
	"github.com/sells-group/faskes-equity/internal/profile"
	"github.com/sells-group/faskes-equity/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate report over the reference dataset",
	Long: `Summarize the reference table: row and province counts, national
facility and visit totals, and per-cluster region counts and indicator means.
Rows are grouped by their stored cluster label and never re-classified.

Examples:
  faskes summary
  faskes summary --format csv > summary.csv`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().String("format", "table", "output format: table or csv")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("summary: unknown format %q (want table or csv)", format)
	}
	if err := cfg.Validate("summary"); err != nil {
		return err
	}

	ds, err := dataset.Load(cmd.Context(), cfg.Dataset.Source())
	if err != nil {
		return eris.Wrap(err, "summary")
	}
	s := report.Summarize(ds.Regions())

	if format == "csv" {
		return writeSummaryCSV(cmd.OutOrStdout(), s)
	}
	return writeSummaryTable(cmd.OutOrStdout(), s)
}

// clusterName labels stored ids that have no profile with "-".
func clusterName(id model.ClusterID) string {
	p, err := profile.Default().Describe(id)
	if err != nil {
		return "-"
	}
	return p.Name
}

func writeSummaryTable(w io.Writer, s report.Summary) error {
	fmt.Fprintf(w, "Rows: %d  Provinces: %d  Clusters: %d\n", s.Rows, s.Provinces, s.Clusters)
	fmt.Fprintf(w, "Total facilities: %d  Total visits: %d\n\n", s.TotalFacilities, s.TotalVisits)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUSTER\tNAME\tREGIONS\tMEAN FACILITIES\tMEAN VISITS\tMEAN WEIGHT\tMEAN TOTAL WEIGHT")
	for _, c := range s.PerCluster {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f\t%.4f\t%.2f\n",
			c.Cluster, clusterName(c.Cluster), c.Regions,
			c.MeanFacilityCount, c.MeanVisitCount, c.MeanFacilityWeight, c.MeanTotalFacilityWeight)
	}
	return tw.Flush()
}

func writeSummaryCSV(w io.Writer, s report.Summary) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"cluster", "name", "regions", "mean_facility_count", "mean_visit_count", "mean_facility_weight", "mean_total_facility_weight"})
	for _, c := range s.PerCluster {
		_ = cw.Write([]string{
			strconv.Itoa(int(c.Cluster)),
			clusterName(c.Cluster),
			strconv.Itoa(c.Regions),
			strconv.FormatFloat(c.MeanFacilityCount, 'f', -1, 64),
			strconv.FormatFloat(c.MeanVisitCount, 'f', -1, 64),
			strconv.FormatFloat(c.MeanFacilityWeight, 'f', -1, 64),
			strconv.FormatFloat(c.MeanTotalFacilityWeight, 'f', -1, 64),
		})
	}
	cw.Flush()
	return cw.Error()
}
