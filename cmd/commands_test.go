package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/model"
)

const (
	testScaler = `features: [facility_count, visit_count, mean_facility_weight, total_facility_weight]
mean: [100, 500, 0.5, 50]
scale: [50, 250, 0.2, 25]
`
	testModel = `k: 3
metric: euclidean
centroids:
  - [-1, -1, -1, -1]
  - [0, 0, 0, 0]
  - [1, 1, 1, 1]
`
	testDataset = `provinsi_faskes,cluster,jumlah_faskes,jumlah_kunjungan,rata_bobot,total_bobot
ACEH,0,50,250,0.3,25
BALI,1,100,500,0.5,50
DKI JAKARTA,2,150,750,0.7,75
PAPUA,1,50,250,0.3,25
`
)

// setupFixtures writes artifacts and a reference CSV to a temp dir and points
// the environment-driven config at them.
func setupFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	t.Setenv("FASKES_MODEL_SCALER_PATH", write("scaler.yaml", testScaler))
	t.Setenv("FASKES_MODEL_MODEL_PATH", write("model_clustering.yaml", testModel))
	t.Setenv("FASKES_DATASET_PATH", write("fitur.csv", testDataset))
	t.Setenv("FASKES_LOG_LEVEL", "error")
	return dir
}

// resetFlags restores defaults between executions; slice flags would
// otherwise append to the previous run's values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestClassify_Text(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "classify",
		"--facilities", "50", "--visits", "250", "--mean-weight", "0.3", "--total-weight", "25",
		"--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Cluster 0: Wilayah Tertinggal")
	assert.Contains(t, out, "Cluster dengan keterbatasan fasilitas dan prioritas tinggi intervensi kebijakan.")
	assert.Contains(t, out, "0=0.0000 1=2.0000 2=4.0000")
	assert.Contains(t, out, "Cluster ini ditandai")
}

func TestClassify_JSON(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "classify",
		"--facilities", "150", "--visits", "750", "--mean-weight", "0.7", "--total-weight", "75",
		"--format", "json")
	require.NoError(t, err)

	var c model.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, model.ClusterID(2), c.Cluster)
	assert.Equal(t, "Wilayah Relatif Maju", c.Profile.Name)
	assert.Equal(t, "Cluster dengan fasilitas relatif memadai.", c.Profile.Summary)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, c.Scaled, 1e-9)
}

func TestClassify_NegativeInput(t *testing.T) {
	setupFixtures(t)
	_, err := execute(t, "classify",
		"--facilities", "-5", "--visits", "250", "--mean-weight", "0.3", "--total-weight", "25",
		"--format", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, cluster.ErrInvalidInput)
}

func TestClassify_BadFormat(t *testing.T) {
	setupFixtures(t)
	_, err := execute(t, "classify",
		"--facilities", "50", "--visits", "250", "--mean-weight", "0.3", "--total-weight", "25",
		"--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestClassify_MissingArtifact(t *testing.T) {
	setupFixtures(t)
	t.Setenv("FASKES_MODEL_MODEL_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := execute(t, "classify",
		"--facilities", "50", "--visits", "250", "--mean-weight", "0.3", "--total-weight", "25",
		"--format", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, cluster.ErrConfiguration)
}

func TestClusters(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "clusters", "--centroids=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Wilayah Tertinggal")
	assert.Contains(t, out, "Wilayah Tertekan")
	assert.Contains(t, out, "Wilayah Relatif Maju")
	assert.NotContains(t, out, "facility_count")
}

func TestClusters_Centroids(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "clusters", "--centroids")
	require.NoError(t, err)
	assert.Contains(t, out, "facility_count")
	// centroid 2 is one standard deviation above the mean on every feature
	assert.Contains(t, out, "150.0000")
	assert.Contains(t, out, "750.0000")
}

func TestSummary_Table(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "summary", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 4  Provinces: 4  Clusters: 3")
	assert.Contains(t, out, "Total facilities: 350  Total visits: 1750")
	assert.Contains(t, out, "Wilayah Tertekan")
}

func TestSummary_CSV(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "summary", "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "cluster", records[0][0])
	assert.Equal(t, []string{"1", "Wilayah Tertekan", "2", "75", "375", "0.4", "37.5"}, records[2])
}

func TestCheck(t *testing.T) {
	setupFixtures(t)
	out, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "reference rows: 4")
	assert.Contains(t, out, "label agreement: 3/4 (75.0%)")
	assert.Contains(t, out, "ok")
}

func TestCheck_LabelOutOfRange(t *testing.T) {
	dir := setupFixtures(t)
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(testDataset+"MALUKU,7,10,10,0.1,1\n"), 0o644))
	t.Setenv("FASKES_DATASET_PATH", path)

	_, err := execute(t, "check")
	require.Error(t, err)
	assert.ErrorIs(t, err, cluster.ErrConfiguration)
	assert.Contains(t, err.Error(), "MALUKU")
}

func TestServe_InvalidPort(t *testing.T) {
	setupFixtures(t)
	t.Setenv("FASKES_SERVER_PORT", "70000")
	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestArtifactsInit(t *testing.T) {
	setupFixtures(t)
	outDir := filepath.Join(t.TempDir(), "models")
	out, err := execute(t, "artifacts", "init",
		"--mean", "100,500,0.5,50", "--scale", "50,250,0.2,25",
		"--centroid=-1,-1,-1,-1", "--centroid", "0,0,0,0", "--centroid", "1,1,1,1",
		"--out-dir", outDir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "scaler.json")

	s, err := cluster.LoadScaler(filepath.Join(outDir, "scaler.json"))
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 250, 0.2, 25}, s.Scales())

	m, err := cluster.LoadModel(filepath.Join(outDir, "model_clustering.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.K())
}

func TestArtifactsInit_Rejects(t *testing.T) {
	setupFixtures(t)
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"zero scale", []string{"--mean", "1,2,3,4", "--scale", "1,0,1,1", "--centroid", "0,0,0,0"}, cluster.ErrDegenerateScale},
		{"ragged centroid", []string{"--mean", "1,2,3,4", "--scale", "1,1,1,1", "--centroid", "0,0,0"}, cluster.ErrShapeMismatch},
		{"no profile", []string{"--mean", "1,2,3,4", "--scale", "1,1,1,1",
			"--centroid", "0,0,0,0", "--centroid", "1,1,1,1", "--centroid", "2,2,2,2", "--centroid", "3,3,3,3"}, cluster.ErrConfiguration},
		{"bad number", []string{"--mean", "1,2,3,4", "--scale", "1,1,1,1", "--centroid", "0,x,0,0"}, cluster.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := t.TempDir()
			args := append([]string{"artifacts", "init", "--out-dir", outDir, "--format", "yaml"}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			_, statErr := os.Stat(filepath.Join(outDir, "scaler.yaml"))
			assert.True(t, os.IsNotExist(statErr), "nothing should be written on error")
		})
	}
}
