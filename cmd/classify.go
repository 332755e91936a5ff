package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/faskes-equity/internal/model"
	"github.com/sells-group/faskes-equity/internal/profile"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one region's facility indicators",
	Long: `Scale the four facility indicators of a region, assign the nearest
cluster, and print the cluster's profile and policy recommendation.

Examples:
  # Print the recommendation for a region
  faskes classify --facilities 120 --visits 860 --mean-weight 0.42 --total-weight 50.4

  # Machine-readable output
  faskes classify --facilities 120 --visits 860 --mean-weight 0.42 --total-weight 50.4 --format json`,
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.Float64("facilities", 0, "number of health facilities (jumlah_faskes)")
	f.Float64("visits", 0, "number of patient visits (jumlah_kunjungan)")
	f.Float64("mean-weight", 0, "mean facility weight (rata_bobot)")
	f.Float64("total-weight", 0, "total facility weight (total_bobot)")
	f.String("format", "text", "output format: text or json")
	for _, name := range []string{"facilities", "visits", "mean-weight", "total-weight"} {
		_ = classifyCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return eris.Errorf("classify: unknown format %q (want text or json)", format)
	}
	if err := cfg.Validate("classify"); err != nil {
		return err
	}

	var feat model.Features
	feat.FacilityCount, _ = cmd.Flags().GetFloat64("facilities")
	feat.VisitCount, _ = cmd.Flags().GetFloat64("visits")
	feat.MeanFacilityWeight, _ = cmd.Flags().GetFloat64("mean-weight")
	feat.TotalFacilityWeight, _ = cmd.Flags().GetFloat64("total-weight")

	env, err := initEnv(cmd.Context(), false)
	if err != nil {
		return err
	}

	c, err := env.Engine.Classify(feat)
	if err != nil {
		return eris.Wrap(err, "classify")
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	return writeClassification(out, c)
}

func writeClassification(w io.Writer, c *model.Classification) error {
	fmt.Fprintf(w, "Cluster %d: %s (prioritas %s)\n", c.Cluster, c.Profile.Name, c.Profile.Priority)
	if c.Profile.Summary != "" {
		fmt.Fprintln(w, c.Profile.Summary)
	}
	if c.Profile.Description != "" {
		fmt.Fprintln(w, c.Profile.Description)
	}

	dists := make([]string, len(c.Distances))
	for i, d := range c.Distances {
		dists[i] = fmt.Sprintf("%d=%.4f", i, d)
	}
	fmt.Fprintf(w, "Distances: %s\n\n", strings.Join(dists, " "))

	md, err := renderMarkdown(profile.Render(c.Profile))
	if err != nil {
		return err
	}
	fmt.Fprint(w, md)
	return nil
}

// renderMarkdown styles md for the terminal; non-TTY output gets the plain
// style.
func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", eris.Wrap(err, "markdown renderer")
	}
	out, err := r.Render(md)
	if err != nil {
		return "", eris.Wrap(err, "render markdown")
	}
	return out, nil
}
