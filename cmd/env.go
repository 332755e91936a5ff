package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/dataset"
	"github.com/sells-group/faskes-equity/internal/profile"
)

// appEnv holds everything the classify/clusters/check/serve commands need.
// Dataset is nil when the command did not ask for it.
type appEnv struct {
	Engine  *cluster.Engine
	Dataset *dataset.Dataset
}

// initEnv loads the scaler, the model, and optionally the reference dataset
// in parallel, then cross-checks them into an Engine. Callers must have
// validated cfg for the matching mode.
func initEnv(ctx context.Context, withDataset bool) (*appEnv, error) {
	var (
		scaler *cluster.Scaler
		km     *cluster.Model
		ds     *dataset.Dataset
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := cluster.LoadScaler(cfg.Model.ScalerPath)
		if err != nil {
			return eris.Wrap(err, "load scaler")
		}
		scaler = s
		return nil
	})
	g.Go(func() error {
		m, err := cluster.LoadModel(cfg.Model.ModelPath)
		if err != nil {
			return eris.Wrap(err, "load model")
		}
		km = m
		return nil
	})
	if withDataset {
		g.Go(func() error {
			d, err := dataset.Load(gctx, cfg.Dataset.Source())
			if err != nil {
				return eris.Wrap(err, "load dataset")
			}
			ds = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine, err := cluster.NewEngine(scaler, km, profile.Default())
	if err != nil {
		return nil, eris.Wrap(err, "build engine")
	}

	fields := []zap.Field{
		zap.String("scaler", cfg.Model.ScalerPath),
		zap.String("model", cfg.Model.ModelPath),
		zap.Int("k", engine.K()),
	}
	if ds != nil {
		fields = append(fields, zap.Int("reference_rows", ds.Len()))
	}
	zap.L().Info("classifier loaded", fields...)

	return &appEnv{Engine: engine, Dataset: ds}, nil
}
