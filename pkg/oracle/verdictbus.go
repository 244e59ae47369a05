package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// VerdictBus publishes each trial generation's RunResult to a NATS
// subject as it is produced, so a fleet of oracle workers running many
// trials concurrently (spec.md §5's "out-of-core" parallelism opportunity)
// can feed a live dashboard or a downstream aggregator without the oracle
// core itself owning any archival policy -- explicitly not the "result
// archival policy" the spec's Non-goals exclude, since nothing here
// persists anything; a subscriber that never connects loses nothing the
// oracle was responsible for keeping.
type VerdictBus struct {
	conn    *nats.Conn
	subject string
}

// verdictMessage is the JSON payload published for one generation.
type verdictMessage struct {
	Namespace  string `json:"namespace"`
	Trial      string `json:"trial"`
	Generation int    `json:"generation"`
	Kind       string `json:"kind"`
	Reasons    []verdictReason
}

type verdictReason struct {
	Tag    string `json:"tag"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// NewVerdictBus connects to a NATS server at url and publishes under
// subjectPrefix (e.g. "ctrloracle.verdicts").
func NewVerdictBus(url, subjectPrefix string) (*VerdictBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &VerdictBus{conn: conn, subject: subjectPrefix}, nil
}

// Close drains and closes the underlying NATS connection.
func (b *VerdictBus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

// Publish emits one generation's RunResult to
// "<subjectPrefix>.<namespace>.<trial>". Publish errors are returned to
// the caller rather than swallowed, since unlike the delta log this is an
// opt-in side channel with no "fire and forget" guarantee in the spec.
func (b *VerdictBus) Publish(namespace, trial string, generation int, result RunResult) error {
	msg := verdictMessage{
		Namespace:  namespace,
		Trial:      trial,
		Generation: generation,
		Kind:       result.Kind.String(),
	}
	for _, v := range result.Verdicts {
		msg.Reasons = append(msg.Reasons, verdictReason{
			Tag:    string(v.Tag),
			Kind:   v.Result.Kind.String(),
			Reason: v.Reason,
		})
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding verdict message: %w", err)
	}

	subject := fmt.Sprintf("%s.%s.%s", b.subject, namespace, trial)
	return b.conn.Publish(subject, payload)
}
