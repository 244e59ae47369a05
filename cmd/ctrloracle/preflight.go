package main

import (
	"fmt"
	"os"

	"github.com/wayneeseguin/ctrloracle/pkg/oracle"
)

// preflight checks every CLI precondition before a Checker is constructed
// and reports all problems found at once (oracle.MultiError) rather than
// failing at the first, so a misconfigured invocation doesn't make the
// user fix and re-run one problem at a time.
func preflight(schemaPath, trialDir string) error {
	var merr oracle.MultiError

	if schemaPath == "" {
		merr.Append(oracle.NewConfigError("--schema is required"))
	} else if info, err := os.Stat(schemaPath); err != nil {
		merr.Append(oracle.NewSchemaError(schemaPath, "schema file is not accessible", err))
	} else if info.IsDir() {
		merr.Append(oracle.NewSchemaError(schemaPath, "schema path is a directory, not a file", nil))
	}

	if trialDir == "" {
		merr.Append(oracle.NewConfigError("--trial-dir is required"))
	} else if err := os.MkdirAll(trialDir, 0o755); err != nil {
		merr.Append(oracle.NewConfigError(fmt.Sprintf("trial directory %s is not writable: %s", trialDir, err)))
	}

	return merr.ErrOrNil()
}
