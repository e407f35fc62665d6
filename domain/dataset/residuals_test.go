package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphboot/domain/core"
)

func TestNewValidation(t *testing.T) {
	_, err := New("A", []string{"r1"}, nil)
	require.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = New("A", nil, [][]float64{{1}})
	require.ErrorIs(t, err, core.ErrNoUsableColumns)

	_, err = New("A", []string{"r1", "r2"}, [][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestResampleView(t *testing.T) {
	ds, err := New("A", []string{"r1", "r2"}, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 2, ds.Cols())

	view := ds.Resample([]int{2, 2, 0})
	assert.Equal(t, 3, view.Rows())
	assert.Equal(t, []float64{5, 6}, view.Row(0))
	assert.Equal(t, []float64{5, 6}, view.Row(1))
	assert.Equal(t, []float64{1, 2}, view.Row(2))
	assert.Equal(t, core.GroupID("A"), view.Group())
	assert.Equal(t, ds.Regions(), view.Regions())
}
