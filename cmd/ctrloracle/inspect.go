package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/ctrloracle/internal/log"
)

// inspectOpts backs the `inspect` subcommand: a human-readable structural
// diff between two persisted system-state JSON snapshots, for manually
// reviewing a trial directory's generations side by side. Reuses
// dyff/ytbx the same way the merge engine's own `diff` subcommand
// compares two YAML/JSON files, since a dyff report is a better read for
// a human than the oracle's internal Delta map.
type inspectOpts struct {
	Files goptions.Remainder `goptions:"description='Two system-state snapshot files to compare'"`
	Help  bool                `goptions:"--help, -h"`
}

func runInspect(opts inspectOpts) {
	if opts.Help {
		usage()
		return
	}
	if len(opts.Files) != 2 {
		usage()
		return
	}

	output, differences, err := diffFiles(opts.Files[0], opts.Files[1])
	if err != nil {
		log.PrintfStdErr("%s\n", err)
		exit(2)
		return
	}

	fmt.Fprintf(os.Stdout, "%s\n", output)
	if differences {
		exit(1)
	}
}

func diffFiles(a, b string) (string, bool, error) {
	from, to, err := ytbx.LoadFiles(a, b)
	if err != nil {
		return "", false, err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", false, err
	}

	reportWriter := &dyff.HumanReport{
		Report:       report,
		OmitHeader:   true,
		NoTableStyle: false,
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	if err := reportWriter.WriteReport(out); err != nil {
		return "", false, err
	}
	out.Flush()

	return buf.String(), len(report.Diffs) > 0, nil
}
