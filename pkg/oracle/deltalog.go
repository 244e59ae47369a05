package oracle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wayneeseguin/ctrloracle/internal/log"
)

// deltaLogIndent matches the original checker's json.dumps(..., indent=6)
// formatting so persisted delta logs read the same either side of the
// port.
const deltaLogIndent = "      "

// WriteDeltaLog persists one generation's input/system delta sets to
// trialDir/delta-<generation>.log in the original's labeled-block text
// format (spec.md §4.4 step 2). Write failures are logged and otherwise
// ignored: per spec.md §7, the delta log is fire-and-forget and never
// changes the returned verdict.
func WriteDeltaLog(trialDir string, generation int, inputDeltas InputDeltaSet, systemDeltas SystemDeltaSet) {
	path := filepath.Join(trialDir, fmt.Sprintf("delta-%d.log", generation))

	f, err := os.Create(path)
	if err != nil {
		log.Warn("could not open delta log %s: %v", path, err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "---------- INPUT DELTA  ----------"); err != nil {
		log.Warn("writing delta log %s: %v", path, err)
		return
	}
	if err := writeJSON(f, inputDeltas.Paths()); err != nil {
		log.Warn("encoding input delta for %s: %v", path, err)
	}
	if _, err := fmt.Fprintln(f, "\n---------- SYSTEM DELTA ----------"); err != nil {
		log.Warn("writing delta log %s: %v", path, err)
		return
	}
	if err := writeJSON(f, systemDeltas.Paths()); err != nil {
		log.Warn("encoding system delta for %s: %v", path, err)
	}
}

func writeJSON(f *os.File, deltas []Delta) error {
	type entry struct {
		Path Path        `json:"path"`
		Prev interface{} `json:"prev"`
		Curr interface{} `json:"curr"`
	}
	entries := make([]entry, 0, len(deltas))
	for _, d := range deltas {
		prev, curr := d.Prev, d.Curr
		if IsNotPresent(prev) {
			prev = nil
		}
		if IsNotPresent(curr) {
			curr = nil
		}
		entries = append(entries, entry{Path: d.Path, Prev: prev, Curr: curr})
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", deltaLogIndent)
	return enc.Encode(entries)
}
