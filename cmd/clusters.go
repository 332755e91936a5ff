package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/faskes-equity/internal/model"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List cluster profiles",
	Long:  "Print every cluster in the loaded model with its name, priority, and headline. --centroids adds each centroid converted back to raw indicator units.",
	RunE:  runClusters,
}

func init() {
	clustersCmd.Flags().Bool("centroids", false, "include centroids in raw indicator units")
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate("classify"); err != nil {
		return err
	}
	showCentroids, _ := cmd.Flags().GetBool("centroids")

	env, err := initEnv(cmd.Context(), false)
	if err != nil {
		return err
	}
	e := env.Engine

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	header := "ID\tNAME\tPRIORITY\tHEADLINE"
	if showCentroids {
		for _, name := range model.FeatureNames {
			header += "\t" + name
		}
	}
	fmt.Fprintln(tw, header)

	for i := 0; i < e.K(); i++ {
		id := model.ClusterID(i)
		p, err := e.Describe(id)
		if err != nil {
			return eris.Wrapf(err, "clusters: describe %d", i)
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s", id, p.Name, p.Priority, p.Headline)
		if showCentroids {
			c, err := e.Model().Centroid(id)
			if err != nil {
				return err
			}
			raw, err := e.Scaler().Inverse(c)
			if err != nil {
				return eris.Wrapf(err, "clusters: centroid %d", i)
			}
			for _, v := range raw {
				line += fmt.Sprintf("\t%.4f", v)
			}
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
