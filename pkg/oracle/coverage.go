package oracle

// CoverageStats reports how much of the observed system state a trial
// generation's input change actually touched: supplemented from
// original_source/checker.py's count_num_fields, which the spec's
// distillation dropped but which the fuzzing harness around the oracle
// uses to prioritize under-exercised schema regions.
type CoverageStats struct {
	// TotalFields is the number of leaf fields in the flattened observed
	// system state.
	TotalFields int
	// ChangedFields is the number of system-state deltas observed in
	// this generation.
	ChangedFields int
}

// Ratio returns ChangedFields/TotalFields, or 0 when TotalFields is 0.
func (c CoverageStats) Ratio() float64 {
	if c.TotalFields == 0 {
		return 0
	}
	return float64(c.ChangedFields) / float64(c.TotalFields)
}

// FieldCoverage computes CoverageStats for one generation, mirroring
// count_num_fields: it only counts when the generation's InputOracle
// verdict is Pass (an invalid or connection-refused generation has no
// meaningful coverage contribution) and when at least one input delta was
// observed.
func FieldCoverage(inputResult Verdict, flattenedStateFieldCount int, inputDeltas InputDeltaSet, systemDeltas SystemDeltaSet) (CoverageStats, bool) {
	if inputResult.Result.Kind != ResultPass {
		return CoverageStats{}, false
	}
	if len(inputDeltas) == 0 {
		return CoverageStats{}, false
	}
	return CoverageStats{
		TotalFields:   flattenedStateFieldCount,
		ChangedFields: len(systemDeltas),
	}, true
}

// FlattenFieldCount counts the leaf scalar fields in a JSON-shaped value,
// the Go equivalent of the original's flatten_dict(...) length.
func FlattenFieldCount(v interface{}) int {
	switch t := v.(type) {
	case map[string]interface{}:
		n := 0
		for _, child := range t {
			n += FlattenFieldCount(child)
		}
		return n
	case []interface{}:
		n := 0
		for _, child := range t {
			n += FlattenFieldCount(child)
		}
		return n
	default:
		return 1
	}
}
