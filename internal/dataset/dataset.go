package dataset

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/db"
	"github.com/sells-group/faskes-equity/internal/model"
)

// Supported source drivers.
const (
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Source describes where the reference table lives.
type Source struct {
	Driver      string  // csv, xlsx, postgres, sqlite; empty = infer from Path
	Path        string  // file path for csv, xlsx, sqlite
	DatabaseURL string  // postgres DSN
	Table       string  // table for postgres and sqlite
	Sheet       string  // xlsx sheet name; empty = first sheet
	Columns     Columns // required column names; empty fields use DefaultColumns

	ConnectAttempts int // postgres connection tries at startup; 0 = db default
}

// Dataset is the immutable reference table.
type Dataset struct {
	regions []model.Region
}

// New wraps regions in a Dataset. The slice is copied.
func New(regions []model.Region) *Dataset {
	return &Dataset{regions: append([]model.Region(nil), regions...)}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.regions)
}

// Regions returns a copy of every row.
func (d *Dataset) Regions() []model.Region {
	if d == nil {
		return nil
	}
	return append([]model.Region(nil), d.regions...)
}

// Load reads the reference table described by src.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	driver := src.Driver
	if driver == "" {
		driver = inferDriver(src.Path)
	}

	var (
		regions []model.Region
		err     error
	)
	switch driver {
	case DriverCSV:
		regions, err = LoadCSVFile(ctx, src.Path, src.Columns)
	case DriverXLSX:
		regions, err = LoadXLSX(src.Path, src.Sheet, src.Columns)
	case DriverSQLite:
		regions, err = LoadSQLite(ctx, src.Path, src.Table, src.Columns)
	case DriverPostgres:
		pool, perr := db.Connect(ctx, src.DatabaseURL, db.ConnectOptions{Attempts: src.ConnectAttempts})
		if perr != nil {
			return nil, eris.Wrap(perr, "dataset: postgres")
		}
		defer pool.Close()
		regions, err = LoadPostgres(ctx, pool, src.Table, src.Columns)
	default:
		return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset: reference table loaded",
		zap.String("driver", driver),
		zap.String("path", src.Path),
		zap.String("table", src.Table),
		zap.Int("rows", len(regions)),
	)
	return New(regions), nil
}

func inferDriver(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return DriverXLSX
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	default:
		return DriverCSV
	}
}

// parseRecord converts one raw record into a Region. line is the 1-based
// source row used in error messages.
func parseRecord(rec []string, idx columnIndex, line int) (model.Region, error) {
	field := func(i int) string {
		if idx[i] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx[i]])
	}

	province := field(0)
	if province == "" {
		return model.Region{}, eris.Wrapf(cluster.ErrConfiguration, "dataset: row %d: empty province", line)
	}

	c, err := parseFloat(field(1))
	if err != nil || c < 0 || c > math.MaxInt32 || c != math.Trunc(c) {
		return model.Region{}, eris.Wrapf(cluster.ErrConfiguration, "dataset: row %d: invalid cluster %q", line, field(1))
	}

	var vals [model.FeatureCount]float64
	for i := range vals {
		v, err := parseFloat(field(i + 2))
		if err != nil {
			return model.Region{}, eris.Wrapf(cluster.ErrConfiguration, "dataset: row %d: invalid %s %q", line, model.FeatureNames[i], field(i+2))
		}
		vals[i] = v
	}

	f := model.Features{
		FacilityCount:       vals[0],
		VisitCount:          vals[1],
		MeanFacilityWeight:  vals[2],
		TotalFacilityWeight: vals[3],
	}
	if err := f.Check(); err != nil {
		return model.Region{}, eris.Wrapf(cluster.ErrConfiguration, "dataset: row %d: %v", line, err)
	}

	return model.Region{Province: province, Cluster: model.ClusterID(c), Features: f}, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, eris.New("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// isBlank reports whether every field of rec is empty.
func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
