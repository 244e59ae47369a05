package oracle

import (
	"fmt"
	"sort"
	"strings"
)

// HealthOracle walks observed system state and flags resources expected
// to have converged by now but haven't (spec.md §4.6). It is generalized
// from the three resource kinds the original always checked
// (StatefulSet, Deployment, Pod) to an injectable list of HealthChecks,
// so a target system's CRD-shaped controllers can register their own
// convergence rule the same way.
type HealthOracle struct {
	Checks []HealthCheck
}

// HealthCheck inspects one resource-kind collection within system state
// and returns the names of resources that are not yet healthy.
type HealthCheck struct {
	Kind      string
	Unhealthy func(state interface{}) []string
}

// NewHealthOracle builds a HealthOracle with the three built-in
// Kubernetes workload checks plus any additional caller-supplied checks.
func NewHealthOracle(extra ...HealthCheck) *HealthOracle {
	checks := append([]HealthCheck{
		{Kind: "statefulset", Unhealthy: unhealthyStatefulSets},
		{Kind: "deployment", Unhealthy: unhealthyDeployments},
		{Kind: "pod", Unhealthy: unhealthyPods},
	}, extra...)
	return &HealthOracle{Checks: checks}
}

// Check walks systemState (the decoded JSON tree keyed by resource kind)
// and aggregates offending resource names per kind.
func (o *HealthOracle) Check(systemState interface{}) Verdict {
	root, ok := systemState.(map[string]interface{})
	if !ok {
		return Verdict{Tag: TagHealth, Result: RunResult{Kind: ResultPass}}
	}

	var lines []string
	for _, c := range o.Checks {
		coll, ok := root[c.Kind]
		if !ok {
			continue
		}
		names := c.Unhealthy(coll)
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		lines = append(lines, fmt.Sprintf("%s: %s", c.Kind, strings.Join(names, ", ")))
	}

	if len(lines) == 0 {
		return Verdict{Tag: TagHealth, Result: RunResult{Kind: ResultPass}}
	}
	return Verdict{
		Tag:    TagHealth,
		Result: RunResult{Kind: ResultError},
		Reason: strings.Join(lines, "\n"),
	}
}

func resourceCollection(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch coll := v.(type) {
	case map[string]interface{}:
		for _, item := range coll {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	case []interface{}:
		for _, item := range coll {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func nested(m map[string]interface{}, keys ...string) (interface{}, bool) {
	var cur interface{} = m
	for _, k := range keys {
		cm, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := cm[k]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func resourceName(m map[string]interface{}) string {
	if name, ok := nested(m, "metadata", "name"); ok {
		return fmt.Sprint(name)
	}
	return "<unknown>"
}

func unhealthyStatefulSets(v interface{}) []string {
	var names []string
	for _, sfs := range resourceCollection(v) {
		replicas, _ := nested(sfs, "spec", "replicas")
		statusReplicas, _ := nested(sfs, "status", "replicas")
		ready, _ := nested(sfs, "status", "ready_replicas")
		current, _ := nested(sfs, "status", "current_revision")
		update, _ := nested(sfs, "status", "update_revision")

		if inputCompare(replicas, statusReplicas) && inputCompare(statusReplicas, ready) && inputCompare(current, update) {
			continue
		}
		names = append(names, resourceName(sfs))
	}
	return names
}

func unhealthyDeployments(v interface{}) []string {
	var names []string
	for _, dp := range resourceCollection(v) {
		replicas, _ := nested(dp, "spec", "replicas")
		if f, ok := asFloat(replicas); ok && f == 0 {
			continue
		}
		statusReplicas, _ := nested(dp, "status", "replicas")
		ready, _ := nested(dp, "status", "ready_replicas")
		updated, _ := nested(dp, "status", "updated_replicas")

		if inputCompare(replicas, statusReplicas) && inputCompare(statusReplicas, ready) && inputCompare(ready, updated) {
			continue
		}
		names = append(names, resourceName(dp))
	}
	return names
}

var healthyPodPhases = map[string]bool{"Running": true, "Completed": true, "Succeeded": true}

func unhealthyPods(v interface{}) []string {
	var names []string
	for _, pod := range resourceCollection(v) {
		phase, _ := nested(pod, "status", "phase")
		if s, ok := phase.(string); ok && healthyPodPhases[s] {
			continue
		}
		names = append(names, resourceName(pod))
	}
	return names
}
