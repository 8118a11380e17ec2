package report

// DefaultPhases is the ordered vocabulary of build phases reported by
// the benchmarking tool's profiling output. Chart columns follow this
// order; phases absent from a run's samples chart as zero.
var DefaultPhases = []string{
	"Launch Blaze",
	"Initialize command",
	"Load packages",
	"Analyze dependencies",
	"Analyze licenses",
	"Prepare for build",
	"Build artifacts",
	"Complete build",
}

// PhaseSample is one named build-phase timing entry tied to a run.
type PhaseSample struct {
	RunID    string
	Phase    string
	Duration float64 // seconds
}

// ProportionMap maps run id -> phase name -> that phase's fraction of
// the run's total phase time. Fractions for phases present sum to 1.
type ProportionMap map[string]map[string]float64

// Proportions groups samples by run id and derives each phase's share
// of the run's total phase duration. A run whose samples sum to zero
// has no defined breakdown and yields an IntegrityError.
func Proportions(samples []PhaseSample) (ProportionMap, error) {
	grouped := make(map[string][]PhaseSample)
	for _, s := range samples {
		grouped[s.RunID] = append(grouped[s.RunID], s)
	}

	out := make(ProportionMap, len(grouped))
	for runID, group := range grouped {
		var total float64
		for _, s := range group {
			total += s.Duration
		}
		if total == 0 {
			return nil, &IntegrityError{Reason: "run " + runID + ": total phase duration is zero"}
		}
		shares := make(map[string]float64, len(group))
		for _, s := range group {
			shares[s.Phase] += s.Duration / total
		}
		out[runID] = shares
	}
	return out, nil
}
