package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/model"
)

// LoadXLSX reads regions from a worksheet. The first row is the header. An
// empty sheet name selects the first sheet.
func LoadXLSX(path, sheetName string, cols Columns) ([]model.Region, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: xlsx: open %s: %v", path, err)
	}

	sheet, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: xlsx: sheet %q is empty", sheet.Name)
	}

	idx, err := cols.resolve(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: %s", path)
	}

	var regions []model.Region
	for i, row := range sheet.Rows[1:] {
		rec := rowToStrings(row)
		if isBlank(rec) {
			continue
		}
		region, err := parseRecord(rec, idx, i+2)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: %s", path)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Wrapf(cluster.ErrConfiguration, "dataset: xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(cluster.ErrConfiguration, "dataset: xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
