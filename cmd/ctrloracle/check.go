package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wayneeseguin/ctrloracle/internal/log"
	"github.com/wayneeseguin/ctrloracle/pkg/collab"
	"github.com/wayneeseguin/ctrloracle/pkg/oracle"
	"github.com/wayneeseguin/ctrloracle/pkg/schema"
)

type checkOpts struct {
	Config     string `goptions:"--config, description='Path to a ctrloracle config file'"`
	Schema     string `goptions:"--schema, obligatory, description='Path to the OpenAPI v3 schema (JSON) for the input object'"`
	TrialDir   string `goptions:"--trial-dir, obligatory, description='Directory to persist the per-generation delta log to'"`
	Generation int    `goptions:"--generation, description='Generation number for this check'"`
	PrevInput  string `goptions:"--prev-input, description='Path to the previous input document (JSON); omit for generation 0'"`
	CurrInput  string `goptions:"--curr-input, obligatory, description='Path to the current input document (JSON)'"`
	PrevState  string `goptions:"--prev-state, description='Path to the previous observed system state (JSON); omit for generation 0'"`
	CurrState  string `goptions:"--curr-state, obligatory, description='Path to the current observed system state (JSON)'"`
	Logs       string `goptions:"--logs, description='Path to captured controller log lines, one per line'"`
	Stdout     string `goptions:"--stdout, description='Path to the apply command'\"'\"'s captured stdout'"`
	Stderr     string `goptions:"--stderr, description='Path to the apply command'\"'\"'s captured stderr'"`
	Analysis   string `goptions:"--analysis, description='Path to a static-analysis result (JSON): field_conditions_map/control_flow_fields/default_value_map'"`
	Help       bool   `goptions:"--help, -h"`
}

func runCheck(opts checkOpts) {
	if opts.Help {
		usage()
		return
	}

	cfg := loadConfig(opts.Config)

	if err := preflight(opts.Schema, opts.TrialDir); err != nil {
		log.Fatal(err)
	}

	schemaBytes, err := os.ReadFile(opts.Schema)
	if err != nil {
		log.Fatal(oracle.NewSchemaError(opts.Schema, "could not read schema file", err))
	}
	root, err := schema.FromOpenAPIV3Bytes(schemaBytes)
	if err != nil {
		log.Fatal(oracle.NewSchemaError(opts.Schema, "could not decode OpenAPI v3 schema", err))
	}

	prevInput := readJSONOrNotPresent(opts.PrevInput)
	currInput := readJSONRequired(opts.CurrInput)
	prevState := readJSONOrNotPresent(opts.PrevState)
	currState := readJSONRequired(opts.CurrState)
	logs := readLines(opts.Logs)
	cli := oracle.CLIResult{
		Stdout: readFileOrEmpty(opts.Stdout),
		Stderr: readFileOrEmpty(opts.Stderr),
	}

	matchCfg := oracle.MatchConfig{
		GenericFields:  cfg.GenericFields,
		InclusiveMatch: cfg.InclusiveMatch,
	}

	analysis := readAnalysisResult(opts.Analysis)
	checker := oracle.NewChecker(cfg.Namespace, opts.TrialDir, root, matchCfg, cfg.ExcludeErrorRegex,
		collab.DefaultInvalidInputMessage, collab.DefaultParseLog, cfg.EnableHealthOracle, cfg.EnableAnalysis, analysis)

	result := checker.Check(opts.Generation, prevInput, currInput,
		oracle.Snapshot{State: prevState}, oracle.Snapshot{State: currState, Logs: logs}, cli)

	printResult(result)
	if result.Errored() {
		exit(1)
	}
}

func printResult(result oracle.RunResult) {
	type verdictOut struct {
		Tag    string `json:"tag"`
		Kind   string `json:"kind"`
		Reason string `json:"reason,omitempty"`
	}
	out := struct {
		Kind     string       `json:"kind"`
		Verdicts []verdictOut `json:"verdicts"`
	}{Kind: result.Kind.String()}
	for _, v := range result.Verdicts {
		out.Verdicts = append(out.Verdicts, verdictOut{Tag: string(v.Tag), Kind: v.Result.Kind.String(), Reason: v.Reason})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func readJSONRequired(path string) interface{} {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(oracle.NewSnapshotError(fmt.Sprintf("could not read %s", path), err))
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		log.Fatal(oracle.NewSnapshotError(fmt.Sprintf("could not decode %s as JSON", path), err))
	}
	return v
}

func readJSONOrNotPresent(path string) interface{} {
	if path == "" {
		return oracle.NotPresent
	}
	return readJSONRequired(path)
}

func readFileOrEmpty(path string) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		oracle.NewWarningError("could not read %s: %s", path, err).Warn()
		return ""
	}
	return string(b)
}

// readAnalysisResult loads an optional static-analysis result file
// (spec.md §6 context.analysis_result). A missing/empty path is not an
// error -- analysis is opt-in via Config.EnableAnalysis, and NewChecker
// tolerates a nil *oracle.AnalysisResult even when enabled.
func readAnalysisResult(path string) *oracle.AnalysisResult {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		oracle.NewWarningError("could not read analysis result %s: %s", path, err).Warn()
		return nil
	}
	var result oracle.AnalysisResult
	if err := json.Unmarshal(b, &result); err != nil {
		oracle.NewWarningError("could not decode analysis result %s as JSON: %s", path, err).Warn()
		return nil
	}
	return &result
}

func readLines(path string) []string {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		oracle.NewWarningError("could not read %s: %s", path, err).Warn()
		return nil
	}
	var lines []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, string(b[start:i]))
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, string(b[start:]))
	}
	return lines
}
