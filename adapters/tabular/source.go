// Package tabular supplies residual datasets from tabular files: XLSX
// workbooks (one sheet per group) and CSV files (a leading group column).
// Both produce the same in-memory ResidualDataset views the engine resamples.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/ports"
)

// FileSource reads per-group residual matrices from a .xlsx or .csv file.
// The file is read once, on first use, then served from memory.
type FileSource struct {
	path     string
	fileType string // "xlsx" or "csv"
	only     []core.GroupID

	loaded bool
	order  []core.GroupID
	data   map[core.GroupID]*dataset.ResidualDataset
}

var _ ports.ResidualSource = (*FileSource)(nil)

// NewFileSource creates a source for path. If groups is non-empty it fixes
// the group order and restricts loading to those groups; otherwise every
// group found in the file is used, in file order.
func NewFileSource(path string, groups []string) *FileSource {
	ext := strings.ToLower(filepath.Ext(path))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	only := make([]core.GroupID, 0, len(groups))
	for _, g := range groups {
		only = append(only, core.GroupID(g))
	}
	return &FileSource{path: path, fileType: fileType, only: only}
}

// Groups implements ports.ResidualSource.
func (s *FileSource) Groups(ctx context.Context) ([]core.GroupID, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]core.GroupID(nil), s.order...), nil
}

// Dataset implements ports.ResidualSource.
func (s *FileSource) Dataset(ctx context.Context, group core.GroupID) (*dataset.ResidualDataset, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	ds, ok := s.data[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrGroupNotFound, group, s.path)
	}
	return ds, nil
}

func (s *FileSource) load() error {
	if s.loaded {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("residual data file: %w", err)
	}

	var (
		order []core.GroupID
		data  map[core.GroupID]*dataset.ResidualDataset
		err   error
	)
	switch s.fileType {
	case "csv":
		order, data, err = readCSV(s.path)
	default:
		order, data, err = readXLSX(s.path)
	}
	if err != nil {
		return err
	}

	if len(s.only) > 0 {
		filtered := make(map[core.GroupID]*dataset.ResidualDataset, len(s.only))
		for _, g := range s.only {
			ds, ok := data[g]
			if !ok {
				return fmt.Errorf("%w: %q in %s", core.ErrGroupNotFound, g, s.path)
			}
			filtered[g] = ds
		}
		order, data = s.only, filtered
	}

	s.order, s.data, s.loaded = order, data, true
	return nil
}

// readXLSX loads one group per sheet: header row of region names, then one
// row of residuals per subject.
func readXLSX(path string) ([]core.GroupID, map[core.GroupID]*dataset.ResidualDataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var order []core.GroupID
	data := make(map[core.GroupID]*dataset.ResidualDataset)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			return nil, nil, fmt.Errorf("sheet %q needs a header row and at least one data row", sheet)
		}
		regions := rows[0]
		matrix := make([][]float64, 0, len(rows)-1)
		for ri, row := range rows[1:] {
			vals, err := parseRow(row, len(regions))
			if err != nil {
				return nil, nil, fmt.Errorf("sheet %q row %d: %w", sheet, ri+2, err)
			}
			matrix = append(matrix, vals)
		}
		gid := core.GroupID(sheet)
		ds, err := dataset.New(gid, regions, matrix)
		if err != nil {
			return nil, nil, err
		}
		order = append(order, gid)
		data[gid] = ds
	}
	return order, data, nil
}

// readCSV loads a long-format file: header "group,region1,region2,...", one
// subject per row. Group order follows first appearance.
func readCSV(path string) ([]core.GroupID, map[core.GroupID]*dataset.ResidualDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("CSV needs a header row and at least one data row")
	}
	header := records[0]
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "group") {
		return nil, nil, fmt.Errorf("CSV header must start with a group column")
	}
	regions := header[1:]

	var order []core.GroupID
	grouped := make(map[core.GroupID][][]float64)
	for ri, row := range records[1:] {
		if len(row) != len(header) {
			return nil, nil, fmt.Errorf("CSV row %d has %d fields, want %d", ri+2, len(row), len(header))
		}
		gid := core.GroupID(strings.TrimSpace(row[0]))
		vals, err := parseRow(row[1:], len(regions))
		if err != nil {
			return nil, nil, fmt.Errorf("CSV row %d: %w", ri+2, err)
		}
		if _, seen := grouped[gid]; !seen {
			order = append(order, gid)
		}
		grouped[gid] = append(grouped[gid], vals)
	}

	data := make(map[core.GroupID]*dataset.ResidualDataset, len(order))
	for _, gid := range order {
		ds, err := dataset.New(gid, regions, grouped[gid])
		if err != nil {
			return nil, nil, err
		}
		data[gid] = ds
	}
	return order, data, nil
}

func parseRow(cells []string, want int) ([]float64, error) {
	if len(cells) != want {
		return nil, fmt.Errorf("got %d values, want %d", len(cells), want)
	}
	vals := make([]float64, want)
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: bad number %q", i+1, cell)
		}
		vals[i] = v
	}
	return vals, nil
}
