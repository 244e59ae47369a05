package oracle

import "testing"

func TestHealthOracleConvergedStatefulSetIsHealthy(t *testing.T) {
	o := NewHealthOracle()
	state := map[string]interface{}{
		"statefulset": []interface{}{
			map[string]interface{}{
				"metadata": map[string]interface{}{"name": "web"},
				"spec":     map[string]interface{}{"replicas": float64(3)},
				"status": map[string]interface{}{
					"replicas": float64(3), "ready_replicas": float64(3),
					"current_revision": "v1", "update_revision": "v1",
				},
			},
		},
	}
	v := o.Check(state)
	if v.Result.Kind != ResultPass {
		t.Fatalf("expected Pass for a converged statefulset, got %s: %s", v.Result.Kind, v.Reason)
	}
}

func TestHealthOracleMidRolloutStatefulSetIsUnhealthy(t *testing.T) {
	o := NewHealthOracle()
	state := map[string]interface{}{
		"statefulset": []interface{}{
			map[string]interface{}{
				"metadata": map[string]interface{}{"name": "web"},
				"spec":     map[string]interface{}{"replicas": float64(3)},
				"status": map[string]interface{}{
					"replicas": float64(3), "ready_replicas": float64(2),
					"current_revision": "v1", "update_revision": "v2",
				},
			},
		},
	}
	v := o.Check(state)
	if v.Result.Kind != ResultError {
		t.Fatalf("expected Error for a mid-rollout statefulset, got %s", v.Result.Kind)
	}
}

func TestHealthOracleScaledToZeroDeploymentIsHealthy(t *testing.T) {
	o := NewHealthOracle()
	state := map[string]interface{}{
		"deployment": map[string]interface{}{
			"idle": map[string]interface{}{
				"metadata": map[string]interface{}{"name": "idle"},
				"spec":     map[string]interface{}{"replicas": float64(0)},
				"status":   map[string]interface{}{},
			},
		},
	}
	v := o.Check(state)
	if v.Result.Kind != ResultPass {
		t.Fatalf("a deployment scaled to zero is trivially healthy, got %s: %s", v.Result.Kind, v.Reason)
	}
}

func TestHealthOracleUnreadyPodIsUnhealthy(t *testing.T) {
	o := NewHealthOracle()
	state := map[string]interface{}{
		"pod": []interface{}{
			map[string]interface{}{
				"metadata": map[string]interface{}{"name": "crashy"},
				"status":   map[string]interface{}{"phase": "CrashLoopBackOff"},
			},
		},
	}
	v := o.Check(state)
	if v.Result.Kind != ResultError {
		t.Fatalf("expected Error for an unhealthy pod phase, got %s", v.Result.Kind)
	}
}

func TestHealthOracleCustomCheckExercised(t *testing.T) {
	o := NewHealthOracle(HealthCheck{
		Kind: "widget",
		Unhealthy: func(state interface{}) []string {
			return []string{"broken-widget"}
		},
	})
	v := o.Check(map[string]interface{}{"widget": []interface{}{}})
	if v.Result.Kind != ResultError {
		t.Fatalf("expected Error from the injected custom health check, got %s", v.Result.Kind)
	}
}

func TestHealthOracleUnknownKindIgnored(t *testing.T) {
	o := NewHealthOracle()
	v := o.Check(map[string]interface{}{"configmap": []interface{}{}})
	if v.Result.Kind != ResultPass {
		t.Fatalf("a kind with no registered check must be ignored, got %s", v.Result.Kind)
	}
}
