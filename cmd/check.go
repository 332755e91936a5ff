package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/faskes-equity/internal/cluster"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate artifacts, knowledge base, and reference dataset",
	Long: `Load the scaler, the cluster model, and the reference dataset, then verify
that they agree: matching dimensions, a profile for every cluster, and stored
cluster labels inside the model's range. Every reference row is also
re-classified and the agreement with its stored label is reported.
Exits non-zero on any configuration error.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate("check"); err != nil {
		return err
	}

	env, err := initEnv(cmd.Context(), true)
	if err != nil {
		return err
	}

	regions := env.Dataset.Regions()
	k := env.Engine.K()
	agree := 0
	for i, r := range regions {
		if int(r.Cluster) < 0 || int(r.Cluster) >= k {
			return eris.Wrapf(cluster.ErrConfiguration,
				"check: reference row %d (%s) has cluster %d, model has %d clusters", i+1, r.Province, r.Cluster, k)
		}
		c, err := env.Engine.Classify(r.Features)
		if err != nil {
			return eris.Wrapf(err, "check: reference row %d (%s)", i+1, r.Province)
		}
		if c.Cluster == r.Cluster {
			agree++
		} else {
			zap.L().Debug("stored label differs from nearest centroid",
				zap.String("province", r.Province),
				zap.Int("stored", int(r.Cluster)),
				zap.Int("assigned", int(c.Cluster)),
			)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scaler: %s (%d features)\n", cfg.Model.ScalerPath, env.Engine.Scaler().Dim())
	fmt.Fprintf(out, "model: %s (k=%d)\n", cfg.Model.ModelPath, k)
	fmt.Fprintf(out, "reference rows: %d\n", len(regions))
	if len(regions) > 0 {
		fmt.Fprintf(out, "label agreement: %d/%d (%.1f%%)\n", agree, len(regions), 100*float64(agree)/float64(len(regions)))
	}
	fmt.Fprintln(out, "ok")
	return nil
}
