package oracle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startTestNATSServer boots an in-process NATS server on a random port,
// grounded on the teacher's pkg/graft/operators/op_nats_test.go helper of
// the same name.
func startTestNATSServer(t *testing.T) string {
	t.Helper()
	opts := &server.Options{Port: -1}
	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS server: %v", err)
	}
	ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS server never became ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestVerdictBusPublishesOneMessagePerGeneration(t *testing.T) {
	url := startTestNATSServer(t)

	bus, err := NewVerdictBus(url, "ctrloracle.verdicts")
	if err != nil {
		t.Fatalf("NewVerdictBus: %v", err)
	}
	defer bus.Close()

	sub, err := bus.conn.SubscribeSync("ctrloracle.verdicts.default.trial-1")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	result := RunResult{
		Kind: ResultError,
		Verdicts: []Verdict{
			{Tag: TagState, Result: RunResult{Kind: ResultError}, Reason: "unexplained delta"},
		},
	}

	if err := bus.Publish("default", "trial-1", 3, result); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("waiting for published message: %v", err)
	}

	var decoded verdictMessage
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("decoding published payload: %v", err)
	}
	if decoded.Namespace != "default" || decoded.Trial != "trial-1" || decoded.Generation != 3 {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	if decoded.Kind != "Error" {
		t.Fatalf("expected Kind %q, got %q", "Error", decoded.Kind)
	}
	if len(decoded.Reasons) != 1 || decoded.Reasons[0].Tag != "state" {
		t.Fatalf("expected one state reason, got %+v", decoded.Reasons)
	}
}

func TestVerdictBusSubjectIsNamespaceAndTrialScoped(t *testing.T) {
	url := startTestNATSServer(t)

	bus, err := NewVerdictBus(url, "ctrloracle.verdicts")
	if err != nil {
		t.Fatalf("NewVerdictBus: %v", err)
	}
	defer bus.Close()

	sub, err := bus.conn.SubscribeSync("ctrloracle.verdicts.other-namespace.*")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	if err := bus.Publish("other-namespace", "trial-9", 0, RunResult{Kind: ResultPass}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if _, err := sub.NextMsg(2 * time.Second); err != nil {
		t.Fatalf("expected the namespace-scoped subscription to receive the message: %v", err)
	}

	nope, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting second client: %v", err)
	}
	defer nope.Close()
	unrelated, err := nope.SubscribeSync("ctrloracle.verdicts.default.*")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	if _, err := unrelated.NextMsg(200 * time.Millisecond); err == nil {
		t.Fatal("a differently-namespaced subscription must not see the published message")
	}
}
