package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/db"
	"github.com/sells-group/faskes-equity/internal/model"
)

// LoadPostgres reads every row of table through pool. Columns are matched by
// name from the result set, so the table may carry extra columns.
func LoadPostgres(ctx context.Context, pool db.Pool, table string, cols Columns) ([]model.Region, error) {
	if table == "" {
		return nil, eris.Wrap(cluster.ErrConfiguration, "dataset: postgres: no table configured")
	}

	rows, err := pool.Query(ctx, "SELECT * FROM "+db.QualifiedTable(table))
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: postgres: query %s", table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}
	idx, err := cols.resolve(header)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: postgres table %s", table)
	}

	var regions []model.Region
	line := 1
	for rows.Next() {
		line++
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: postgres: row %d", line)
		}
		region, err := parseRecord(valuesToStrings(vals), idx, line)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: postgres: iterate rows")
	}
	return regions, nil
}

// LoadSQLite reads every row of table from the SQLite database at path.
func LoadSQLite(ctx context.Context, path, table string, cols Columns) ([]model.Region, error) {
	if table == "" {
		return nil, eris.Wrap(cluster.ErrConfiguration, "dataset: sqlite: no table configured")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: sqlite: open")
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+quoteSQLite(table))
	if err != nil {
		return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: sqlite: query %s: %v", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: sqlite: columns")
	}
	idx, err := cols.resolve(header)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: sqlite table %s", table)
	}

	var regions []model.Region
	line := 1
	for rows.Next() {
		line++
		vals := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrapf(err, "dataset: sqlite: scan row %d", line)
		}
		region, err := parseRecord(valuesToStrings(vals), idx, line)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: sqlite: iterate rows")
	}
	return regions, nil
}

func quoteSQLite(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func valuesToStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = x
		case []byte:
			out[i] = string(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case float32:
			out[i] = strconv.FormatFloat(float64(x), 'f', -1, 32)
		case interface{ Float64Value() (pgtype.Float8, error) }:
			// NUMERIC columns
			if f, err := x.Float64Value(); err == nil && f.Valid {
				out[i] = strconv.FormatFloat(f.Float64, 'f', -1, 64)
			}
		case fmt.Stringer:
			out[i] = x.String()
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
