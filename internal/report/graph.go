package report

// Table is chart-ready tabular data: a header row followed by data
// rows, in the shape the charting library's arrayToDataTable expects.
type Table [][]any

// BuildWallTable returns the stacked-bar table of per-phase wall time:
// one row per aggregated run, each phase column holding the run's
// median wall time multiplied by that phase's proportion. The lookup
// is keyed by each row's own run id; a run with readings but no phase
// breakdown is a cross-reference failure.
func BuildWallTable(runs []AggregatedRun, proportions ProportionMap, phases []string) (Table, error) {
	header := make([]any, 0, len(phases)+1)
	header = append(header, "Run")
	for _, phase := range phases {
		header = append(header, phase)
	}

	table := Table{header}
	for _, run := range runs {
		shares, ok := proportions[run.RunID]
		if !ok {
			return nil, &IntegrityError{Reason: "run " + run.RunID + " has no phase breakdown"}
		}
		row := make([]any, 0, len(phases)+1)
		row = append(row, run.RunID)
		for _, phase := range phases {
			row = append(row, run.MedianWall*shares[phase])
		}
		table = append(table, row)
	}
	return table, nil
}

// BuildMemoryTable returns the per-run median memory table.
func BuildMemoryTable(runs []AggregatedRun) Table {
	table := Table{{"Run", "Memory (MB)"}}
	for _, run := range runs {
		table = append(table, []any{run.RunID, run.MedianMemory})
	}
	return table
}
