package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/model"
)

// LoadCSVFile opens path and parses it with LoadCSV. The file is closed
// before returning.
func LoadCSVFile(ctx context.Context, path string, cols Columns) ([]model.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: open %s: %v", path, err)
	}
	defer f.Close()

	regions, err := LoadCSV(ctx, f, cols)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: %s", path)
	}
	return regions, nil
}

// LoadCSV parses a headed CSV stream into regions.
func LoadCSV(ctx context.Context, r io.Reader, cols Columns) ([]model.Region, error) {
	ctx, cancel := context.WithCancel(ctx)
	rowCh, errCh := streamCSV(ctx, r)
	defer func() {
		// unblock and drain the reader goroutine on early return
		cancel()
		for range rowCh {
		}
	}()

	header, ok := <-rowCh
	if !ok {
		if err := <-errCh; err != nil {
			return nil, err
		}
		return nil, eris.Wrap(cluster.ErrConfiguration, "dataset: csv has no header row")
	}
	idx, err := cols.resolve(header)
	if err != nil {
		return nil, err
	}

	var regions []model.Region
	line := 1
	for rec := range rowCh {
		line++
		if isBlank(rec) {
			continue
		}
		region, err := parseRecord(rec, idx, line)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return regions, nil
}

// streamCSV reads records on a goroutine. Both channels are closed when the
// reader finishes or ctx is cancelled.
func streamCSV(ctx context.Context, r io.Reader) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "dataset: csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrapf(cluster.ErrConfiguration, "dataset: csv: read row: %v", err)
				return
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
