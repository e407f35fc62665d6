package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/internal/testkit"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "residuals.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `group,r1,r2,r3
control,0.1,0.2,0.3
control,0.4,0.5,0.6
patient,1.1,1.2,1.3
control,0.7,0.8,0.9
patient,1.4,1.5,1.6
`

func TestFileSourceCSV(t *testing.T) {
	src := NewFileSource(writeCSV(t, sampleCSV), nil)
	ctx := context.Background()

	groups, err := src.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.GroupID{"control", "patient"}, groups)

	control, err := src.Dataset(ctx, "control")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, control.Regions())
	assert.Equal(t, 3, control.Rows())
	assert.Equal(t, []float64{0.7, 0.8, 0.9}, control.Row(2))

	patient, err := src.Dataset(ctx, "patient")
	require.NoError(t, err)
	assert.Equal(t, 2, patient.Rows())
	assert.Equal(t, []float64{1.1, 1.2, 1.3}, patient.Row(0))
}

func TestFileSourceCSVGroupFilter(t *testing.T) {
	src := NewFileSource(writeCSV(t, sampleCSV), []string{"patient"})
	groups, err := src.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.GroupID{"patient"}, groups)

	_, err = src.Dataset(context.Background(), "control")
	assert.ErrorIs(t, err, core.ErrGroupNotFound)
}

func TestFileSourceCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing group column", "r1,r2\n1,2\n"},
		{"ragged row", "group,r1,r2\nA,1\n"},
		{"bad number", "group,r1,r2\nA,1,oops\n"},
		{"header only", "group,r1,r2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeCSV(t, tt.content), nil)
			_, err := src.Groups(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.csv"), nil)
	_, err := src.Groups(context.Background())
	assert.Error(t, err)
}

func TestFileSourceXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "residuals.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "control"))
	_, err := f.NewSheet("patient")
	require.NoError(t, err)
	sheets := map[string][][]interface{}{
		"control": {
			{"r1", "r2"},
			{0.1, 0.2},
			{0.3, 0.4},
		},
		"patient": {
			{"r1", "r2"},
			{1.1, 1.2},
		},
	}
	for sheet, rows := range sheets {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src := NewFileSource(path, nil)
	ctx := context.Background()

	groups, err := src.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.GroupID{"control", "patient"}, groups)

	control, err := src.Dataset(ctx, "control")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, control.Regions())
	assert.Equal(t, 2, control.Rows())
	assert.Equal(t, []float64{0.3, 0.4}, control.Row(1))
}

func TestMemorySourcePreservesOrder(t *testing.T) {
	b := testkit.Generate("B", testkit.DefaultOptions())
	a := testkit.Generate("A", testkit.DefaultOptions())
	src := NewMemorySource(b, a)

	groups, err := src.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.GroupID{"B", "A"}, groups)

	got, err := src.Dataset(context.Background(), "A")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = src.Dataset(context.Background(), "C")
	assert.ErrorIs(t, err, core.ErrGroupNotFound)
}

func TestMemorySourceDuplicateGroupKeepsLast(t *testing.T) {
	first, err := dataset.New("A", []string{"r1"}, [][]float64{{1}, {2}})
	require.NoError(t, err)
	second, err := dataset.New("A", []string{"r1"}, [][]float64{{3}, {4}})
	require.NoError(t, err)

	src := NewMemorySource(first, second)
	groups, err := src.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.GroupID{"A"}, groups)

	got, err := src.Dataset(context.Background(), "A")
	require.NoError(t, err)
	assert.Same(t, second, got)
}
