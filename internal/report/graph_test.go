package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPhases = []string{"p1", "p2", "p3"}

func TestBuildWallTableSplitsMedianByProportion(t *testing.T) {
	runs := Aggregate([]RunRecord{
		{RunID: "A", Wall: 10, Memory: 1},
		{RunID: "A", Wall: 12, Memory: 1},
		{RunID: "B", Wall: 20, Memory: 2},
	})
	proportions := ProportionMap{
		"A": {"p1": 0.5, "p2": 0.5},
		"B": {"p1": 1.0},
	}

	table, err := BuildWallTable(runs, proportions, testPhases)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, []any{"Run", "p1", "p2", "p3"}, []any(table[0]))
	// A: median of [10, 12] is 11, split evenly between p1 and p2.
	assert.Equal(t, "A", table[1][0])
	assert.InDelta(t, 5.5, table[1][1].(float64), 1e-9)
	assert.InDelta(t, 5.5, table[1][2].(float64), 1e-9)
	assert.Equal(t, 0.0, table[1][3])
	// B: all of its 20s in p1, absent phases chart as zero.
	assert.Equal(t, "B", table[2][0])
	assert.InDelta(t, 20.0, table[2][1].(float64), 1e-9)
	assert.Equal(t, 0.0, table[2][2])
	assert.Equal(t, 0.0, table[2][3])
}

func TestBuildWallTableLookupIsKeyedPerRow(t *testing.T) {
	// Two runs with different breakdowns: each row must use its own
	// run's proportions, not the last one seen while grouping.
	runs := Aggregate([]RunRecord{
		{RunID: "A", Wall: 10},
		{RunID: "B", Wall: 10},
	})
	proportions := ProportionMap{
		"A": {"p1": 1.0},
		"B": {"p2": 1.0},
	}

	table, err := BuildWallTable(runs, proportions, testPhases)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, table[1][1].(float64), 1e-9)
	assert.Equal(t, 0.0, table[1][2])
	assert.Equal(t, 0.0, table[2][1])
	assert.InDelta(t, 10.0, table[2][2].(float64), 1e-9)
}

func TestBuildWallTableMissingRunIsIntegrityError(t *testing.T) {
	runs := []AggregatedRun{{RunID: "orphan", MedianWall: 5}}

	_, err := BuildWallTable(runs, ProportionMap{}, testPhases)
	require.Error(t, err)
	var integrity *IntegrityError
	require.ErrorAs(t, err, &integrity)
}

func TestBuildWallTableHeaderUsesFullVocabulary(t *testing.T) {
	table, err := BuildWallTable(nil, ProportionMap{}, DefaultPhases)
	require.NoError(t, err)
	require.Len(t, table, 1)
	require.Len(t, table[0], len(DefaultPhases)+1)
	assert.Equal(t, "Run", table[0][0])
	assert.Equal(t, "Launch Blaze", table[0][1])
	assert.Equal(t, "Complete build", table[0][len(DefaultPhases)])
}

func TestBuildMemoryTable(t *testing.T) {
	runs := []AggregatedRun{
		{RunID: "A", MedianMemory: 1500.5},
		{RunID: "B", MedianMemory: 1600.0},
	}

	table := BuildMemoryTable(runs)
	require.Len(t, table, 3)
	assert.Equal(t, []any{"Run", "Memory (MB)"}, []any(table[0]))
	assert.Equal(t, []any{"A", 1500.5}, []any(table[1]))
	assert.Equal(t, []any{"B", 1600.0}, []any(table[2]))
}
