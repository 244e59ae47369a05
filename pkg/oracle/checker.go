package oracle

import (
	"github.com/wayneeseguin/ctrloracle/pkg/schema"
)

// Checker is the oracle core's entry point: one instance is bound to one
// trial directory and its Check method is called once per generation,
// in order (spec.md §5). It wires the Differ, SkipEngine, DependencyIndex,
// and the four-oracle battery together behind the single Check call the
// original source's Checker.check() exposed.
type Checker struct {
	Namespace string
	TrialDir  string

	Schema schema.Node
	Index  *DependencyIndex

	Differ *Differ
	Skip   *SkipEngine

	Input    *InputOracle
	State    *StateOracle
	Log      *LogOracle
	Health   *HealthOracle
	Combiner *VerdictCombiner

	Match MatchConfig

	// EnableAnalysis gates both DependencyIndex seeding from Analysis and
	// ApplyDefaults' use in Check (spec.md §6 `enable_analysis`).
	EnableAnalysis bool
	// Analysis is the static analyzer's output; nil when EnableAnalysis is
	// false or no analysis was supplied.
	Analysis *AnalysisResult

	Bus      *VerdictBus
	Redactor *SecretRedactor

	generationsSeen int
	lastCoverage    []CoverageStats
}

// NewChecker builds a Checker over the given object schema and
// configuration. classify/parse are the InvalidInputMessage/ParseLog
// collaborators; pass the pkg/collab defaults when no custom
// implementation is needed. analysis is the static analyzer's output
// (spec.md §6 context.analysis_result); pass nil when enableAnalysis is
// false or no analysis is available.
func NewChecker(namespace, trialDir string, root schema.Node, cfg MatchConfig, excludeErrorRegex []string, classify InvalidInputMessage, parse ParseLog, enableHealthOracle, enableAnalysis bool, analysis *AnalysisResult) *Checker {
	index := NewDependencyIndex()

	var controlFlowFields []Path
	if enableAnalysis && analysis != nil {
		analysis.seedDependencyIndex(index)
		controlFlowFields = analysis.ControlFlowFields
		if len(analysis.DefaultValueMap) > 0 {
			root = overlayDefaultValueMap(root, analysis.DefaultValueMap)
		}
	}

	index.BuildFromSchema(root)

	skip := NewSkipEngine(root, index, controlFlowFields)

	return &Checker{
		Namespace:      namespace,
		TrialDir:       trialDir,
		Schema:         root,
		Index:          index,
		Differ:         NewDiffer(),
		Skip:           skip,
		Input:          NewInputOracle(classify),
		State:          NewStateOracle(skip, cfg),
		Log:            NewLogOracle(parse, classify, CompileRegexSet(excludeErrorRegex)),
		Health:         NewHealthOracle(),
		Combiner:       NewVerdictCombiner(enableHealthOracle),
		Match:          cfg,
		EnableAnalysis: enableAnalysis,
		Analysis:       analysis,
	}
}

// CheckInput is the input-delta/CLI-result half of Check, split out so
// callers that only need InputOracle's classification (e.g. a dry-run
// validator) don't pay for the full state/log/health battery.
func (c *Checker) CheckInput(cli CLIResult, inputDeltas InputDeltaSet) Verdict {
	return c.Input.Check(cli, inputDeltas)
}

// Check runs the full oracle battery for one trial generation and returns
// the combined RunResult (spec.md §4). prev/curr are the two observed
// snapshots; prevInput/currInput are the corresponding input documents.
// cli is the apply-command's result for this generation.
func (c *Checker) Check(generation int, prevInput, currInput interface{}, prev, curr Snapshot, cli CLIResult) RunResult {
	if c.EnableAnalysis && c.Schema != nil {
		currInput = c.applyDefaults(currInput)
		prevInput = c.applyDefaults(prevInput)
	}

	inputDeltas := InputDeltaSet(c.Differ.Diff(prevInput, currInput))
	systemDeltas := SystemDeltaSet(c.Differ.Diff(prev.State, curr.State))

	if c.Redactor != nil {
		inputDeltas = c.Redactor.RedactDeltaSet(inputDeltas)
		systemDeltas = c.Redactor.RedactDeltaSet(systemDeltas)
	}

	WriteDeltaLog(c.TrialDir, generation, inputDeltas, systemDeltas)

	inputVerdict := c.Input.Check(cli, inputDeltas)
	if inputVerdict.Result.Kind != ResultPass {
		result := c.Combiner.Combine(inputVerdict, Verdict{Tag: TagState, Result: RunResult{Kind: ResultPass}}, Verdict{Tag: TagLog, Result: RunResult{Kind: ResultPass}}, Verdict{Tag: TagHealth, Result: RunResult{Kind: ResultPass}})
		c.publish(generation, result)
		return result
	}

	stateVerdict := c.State.Check(inputDeltas, systemDeltas, currInput)
	logVerdict := c.Log.Check(curr.Logs, inputDeltas)
	healthVerdict := c.Health.Check(curr.State)

	result := c.Combiner.Combine(inputVerdict, stateVerdict, logVerdict, healthVerdict)

	if stats, ok := FieldCoverage(inputVerdict, FlattenFieldCount(curr.State), inputDeltas, systemDeltas); ok {
		c.lastCoverage = append(c.lastCoverage, stats)
	}
	c.generationsSeen++

	c.publish(generation, result)
	return result
}

// CoverageHistory returns the CoverageStats recorded across every
// generation Check has been called for so far.
func (c *Checker) CoverageHistory() []CoverageStats {
	return c.lastCoverage
}

// applyDefaults fills in any schema-declared default value missing from
// input, implementing spec.md §6's "default_value_map ... applied to the
// input schema before checking" for the EnableAnalysis path. A NotPresent
// input (generation 0's prevInput) or an ApplyDefaults failure is returned
// unchanged rather than erroring the whole check.
func (c *Checker) applyDefaults(input interface{}) interface{} {
	if IsNotPresent(input) {
		return input
	}
	filled, err := schema.ApplyDefaults(c.Schema, input)
	if err != nil {
		NewWarningError("applying schema defaults: %s", err).Warn()
		return input
	}
	return filled
}

func (c *Checker) publish(generation int, result RunResult) {
	if c.Bus == nil {
		return
	}
	_ = c.Bus.Publish(c.Namespace, c.TrialDir, generation, result)
}
