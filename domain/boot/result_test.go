package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphboot/domain/core"
)

func makeGroup(t *testing.T, gid core.GroupID, r, d int) *GroupBootstrap {
	t.Helper()
	t0 := make([]float64, d)
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, d)
	}
	gb, err := NewGroupBootstrap(gid, t0, rows, 10)
	require.NoError(t, err)
	return gb
}

func TestNewGroupBootstrapShape(t *testing.T) {
	gb := makeGroup(t, "A", 5, 3)
	assert.Equal(t, 5, gb.Replicates())
	assert.Equal(t, 3, gb.Densities())
	assert.Equal(t, 10, gb.Samples())

	_, err := NewGroupBootstrap("A", []float64{1, 2}, [][]float64{{1}}, 10)
	require.ErrorIs(t, err, core.ErrAggregation)

	_, err = NewGroupBootstrap("A", []float64{1}, nil, 10)
	require.ErrorIs(t, err, core.ErrAggregation)
}

func TestGroupBootstrapColumn(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 20}, {3, 30}}
	gb, err := NewGroupBootstrap("A", []float64{0, 0}, rows, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, gb.Column(0))
	assert.Equal(t, []float64{10, 20, 30}, gb.Column(1))
}

func TestBootstrapResultValidate(t *testing.T) {
	result := &BootstrapResult{
		Densities: []float64{0.1, 0.2},
		Groups:    []core.GroupID{"A", "B"},
		PerGroup: map[core.GroupID]*GroupBootstrap{
			"A": makeGroup(t, "A", 4, 2),
			"B": makeGroup(t, "B", 4, 2),
		},
	}
	require.NoError(t, result.Validate())

	// Mismatched replicate count across groups
	result.PerGroup["B"] = makeGroup(t, "B", 5, 2)
	require.ErrorIs(t, result.Validate(), core.ErrAggregation)

	// Missing group
	delete(result.PerGroup, "B")
	require.ErrorIs(t, result.Validate(), core.ErrAggregation)

	// Density count differs from config
	result.PerGroup["B"] = makeGroup(t, "B", 4, 2)
	result.Densities = []float64{0.1}
	require.ErrorIs(t, result.Validate(), core.ErrAggregation)
}
