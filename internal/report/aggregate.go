package report

import "slices"

// RunRecord is one benchmarking invocation result. Records arrive in
// chronological (commit) order and that order drives the chart x-axis.
type RunRecord struct {
	RunID  string
	Wall   float64 // seconds
	Memory float64 // MB
}

// AggregatedRun collapses a run's repeated readings to their medians.
type AggregatedRun struct {
	RunID        string
	MedianWall   float64
	MedianMemory float64
}

// Aggregate groups records by run id, preserving first-seen order, and
// reduces each group's wall and memory readings to their median.
func Aggregate(records []RunRecord) []AggregatedRun {
	type readings struct {
		wall   []float64
		memory []float64
	}
	var order []string
	byRun := make(map[string]*readings)
	for _, rec := range records {
		r, ok := byRun[rec.RunID]
		if !ok {
			r = &readings{}
			byRun[rec.RunID] = r
			order = append(order, rec.RunID)
		}
		r.wall = append(r.wall, rec.Wall)
		r.memory = append(r.memory, rec.Memory)
	}

	out := make([]AggregatedRun, 0, len(order))
	for _, runID := range order {
		r := byRun[runID]
		out = append(out, AggregatedRun{
			RunID:        runID,
			MedianWall:   median(r.wall),
			MedianMemory: median(r.memory),
		})
	}
	return out
}

// median returns the statistical median (copy-safe): the middle value,
// or the mean of the two middle values for even-sized input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	cp := slices.Clone(values)
	slices.Sort(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}
