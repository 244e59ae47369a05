package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wayneeseguin/ctrloracle/internal/log"
	"github.com/wayneeseguin/ctrloracle/pkg/collab"
	"github.com/wayneeseguin/ctrloracle/pkg/oracle"
	"github.com/wayneeseguin/ctrloracle/pkg/schema"
)

// replayOpts backs the `replay` subcommand: a standalone driver over an
// already-captured trial directory, supplemented from original_source/'s
// replay entry point (a script that re-ran the Checker against a
// previously recorded trial to reproduce or debug a finding without
// re-running the fuzzer). A generation's files are named
// "<n>-input.json", "<n>-state.json", "<n>-logs.txt", "<n>-stdout.txt",
// "<n>-stderr.txt"; replay stops at the first missing "<n>-input.json".
type replayOpts struct {
	Config   string `goptions:"--config, description='Path to a ctrloracle config file'"`
	Schema   string `goptions:"--schema, obligatory, description='Path to the OpenAPI v3 schema (JSON) for the input object'"`
	TrialDir string `goptions:"--trial-dir, obligatory, description='Previously captured trial directory to replay'"`
	Analysis string `goptions:"--analysis, description='Path to a static-analysis result (JSON): field_conditions_map/control_flow_fields/default_value_map'"`
	Help     bool   `goptions:"--help, -h"`
}

func runReplay(opts replayOpts) {
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

	matchCfg := oracle.MatchConfig{
		GenericFields:  cfg.GenericFields,
		InclusiveMatch: cfg.InclusiveMatch,
	}
	analysis := readAnalysisResult(opts.Analysis)
	checker := oracle.NewChecker(cfg.Namespace, opts.TrialDir, root, matchCfg, cfg.ExcludeErrorRegex,
		collab.DefaultInvalidInputMessage, collab.DefaultParseLog, cfg.EnableHealthOracle, cfg.EnableAnalysis, analysis)

	prevInput, prevState := interface{}(oracle.NotPresent), interface{}(oracle.NotPresent)
	sawError := false

	for gen := 0; ; gen++ {
		inputPath := genFile(opts.TrialDir, gen, "input.json")
		if _, err := os.Stat(inputPath); err != nil {
			break
		}

		currInput := readJSONRequired(inputPath)
		currState := readJSONOrNotPresent(genFile(opts.TrialDir, gen, "state.json"))
		logs := readLines(genFile(opts.TrialDir, gen, "logs.txt"))
		cli := oracle.CLIResult{
			Stdout: readFileOrEmpty(genFile(opts.TrialDir, gen, "stdout.txt")),
			Stderr: readFileOrEmpty(genFile(opts.TrialDir, gen, "stderr.txt")),
		}

		result := checker.Check(gen, prevInput, currInput,
			oracle.Snapshot{State: prevState}, oracle.Snapshot{State: currState, Logs: logs}, cli)

		fmt.Fprintf(os.Stdout, "generation %d: %s\n", gen, result.Kind)
		if result.Errored() {
			sawError = true
			for _, v := range result.Verdicts {
				if v.Result.Kind == oracle.ResultError {
					fmt.Fprintf(os.Stdout, "  [%s] %s\n", v.Tag, v.Reason)
				}
			}
		}

		// A refused connection or a rejected input is dropped from the
		// history: the previous generation stays the baseline for the next.
		if result.Kind == oracle.ResultConnectionRefused || result.Kind == oracle.ResultInvalidInput {
			continue
		}
		prevInput, prevState = currInput, currState
	}

	if stats := checker.CoverageHistory(); len(stats) > 0 {
		var totalChanged, totalFields int
		for _, s := range stats {
			totalChanged += s.ChangedFields
			totalFields += s.TotalFields
		}
		fmt.Fprintf(os.Stdout, "coverage: %d/%d fields touched across %d generations\n", totalChanged, totalFields, len(stats))
	}

	if sawError {
		exit(1)
	}
}

func genFile(trialDir string, generation int, suffix string) string {
	return filepath.Join(trialDir, fmt.Sprintf("%d-%s", generation, suffix))
}
