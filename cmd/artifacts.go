package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/profile"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Manage scaler and cluster model artifacts",
}

var artifactsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write scaler and model artifacts from trained parameters",
	Long: `Write scaler and model artifact files from parameters exported by the
training job. Parameters are checked against each other and the built-in
cluster profiles before anything is written.

Examples:
  faskes artifacts init \
    --mean 100,500,0.5,50 --scale 50,250,0.2,25 \
    --centroid=-1,-1,-1,-1 --centroid 0,0,0,0 --centroid 1,1,1,1 \
    --out-dir models`,
	RunE: runArtifactsInit,
}

func init() {
	f := artifactsInitCmd.Flags()
	f.Float64Slice("mean", nil, "per-feature training means, comma-separated")
	f.Float64Slice("scale", nil, "per-feature training standard deviations, comma-separated")
	f.StringArray("centroid", nil, "one centroid in scaled space, comma-separated (repeat per cluster, in cluster-id order)")
	f.String("out-dir", ".", "directory to write artifacts into")
	f.String("format", "yaml", "artifact encoding: yaml or json")
	_ = artifactsInitCmd.MarkFlagRequired("mean")
	_ = artifactsInitCmd.MarkFlagRequired("scale")
	_ = artifactsInitCmd.MarkFlagRequired("centroid")

	artifactsCmd.AddCommand(artifactsInitCmd)
	rootCmd.AddCommand(artifactsCmd)
}

func runArtifactsInit(cmd *cobra.Command, _ []string) error {
	mean, _ := cmd.Flags().GetFloat64Slice("mean")
	scale, _ := cmd.Flags().GetFloat64Slice("scale")
	rawCentroids, _ := cmd.Flags().GetStringArray("centroid")
	outDir, _ := cmd.Flags().GetString("out-dir")
	format, _ := cmd.Flags().GetString("format")

	if format != "yaml" && format != "json" {
		return eris.Errorf("artifacts: unknown format %q (want yaml or json)", format)
	}

	centroids := make([][]float64, 0, len(rawCentroids))
	for i, raw := range rawCentroids {
		c, err := parseFloats(raw)
		if err != nil {
			return eris.Wrapf(err, "artifacts: centroid %d", i)
		}
		centroids = append(centroids, c)
	}

	s, err := cluster.NewScaler(mean, scale)
	if err != nil {
		return eris.Wrap(err, "artifacts")
	}
	m, err := cluster.NewModel(centroids)
	if err != nil {
		return eris.Wrap(err, "artifacts")
	}
	if _, err := cluster.NewEngine(s, m, profile.Default()); err != nil {
		return eris.Wrap(err, "artifacts")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrapf(err, "artifacts: create %s", outDir)
	}
	scalerPath := filepath.Join(outDir, "scaler."+format)
	modelPath := filepath.Join(outDir, "model_clustering."+format)
	if err := cluster.SaveScaler(scalerPath, s); err != nil {
		return err
	}
	if err := cluster.SaveModel(modelPath, m); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", scalerPath, modelPath)
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, eris.Wrapf(cluster.ErrConfiguration, "invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
