package oracle

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/url"
	"regexp"

	"github.com/cloudfoundry-community/vaultkv"
	"github.com/wayneeseguin/ctrloracle/internal/log"
)

// secretRefPattern recognizes the `((vault "path/to/secret:key"))` style
// reference graft's own vault operator resolves; a system under test that
// reuses the same templating convention for Secret-backed fields will
// produce input/system values containing one of these references
// verbatim, which is exactly what SecretRedactor exists to catch before a
// delta log is persisted to disk.
var secretRefPattern = regexp.MustCompile(`\(\(\s*vault\s+"([^"]+)"\s*\)\)`)

// SecretRedactor masks Vault-backed secret values out of delta logs
// before they are persisted, so a trial directory kept for post-mortem
// debugging never leaks credentials (spec.md §7's "no exception escapes
// check()" propagation policy extends to secret material: a redaction
// failure degrades to masking the whole value, never to leaving it
// unmasked).
type SecretRedactor struct {
	kv *vaultkv.KV
}

// NewSecretRedactor builds a client against the given Vault address
// using the system's root CA pool, grounded on operators/op_vault.go's
// client construction.
func NewSecretRedactor(addr, token, namespace string, skipVerify bool) (*SecretRedactor, error) {
	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, err
	}
	parsedURL, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}

	client := &vaultkv.Client{
		AuthToken: token,
		VaultURL:  parsedURL,
		Namespace: namespace,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					RootCAs:            roots,
					InsecureSkipVerify: skipVerify,
				},
			},
		},
	}
	return &SecretRedactor{kv: client.NewKV()}, nil
}

// Redact walks a delta value recursively and masks any string containing
// a vault secret reference, replacing it with "***REDACTED***" rather
// than resolving and comparing the live secret value -- the oracle's job
// is to avoid leaking it, not to verify it. It still probes that the
// reference resolves in Vault at all, purely for a debug-log diagnostic;
// the probe's result never changes the masked output.
func (r *SecretRedactor) Redact(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if m := secretRefPattern.FindStringSubmatch(t); m != nil {
			r.checkResolvable(m[1])
			return "***REDACTED***"
		}
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			out[k] = r.Redact(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			out[i] = r.Redact(child)
		}
		return out
	default:
		return v
	}
}

// checkResolvable fetches path from Vault purely to surface a debug log
// line when a secret reference in a delta no longer resolves -- e.g. a
// rotated or deleted secret -- without ever exposing the fetched value.
// r.kv is nil for a SecretRedactor built directly in tests, in which case
// this is a no-op.
func (r *SecretRedactor) checkResolvable(path string) {
	if r.kv == nil {
		return
	}
	var discard map[string]interface{}
	if _, err := r.kv.Get(path, &discard, nil); err != nil {
		log.DEBUG("redact: vault secret reference %q no longer resolves: %v", path, err)
	}
}

// RedactDeltaSet returns a copy of deltas with Prev/Curr passed through
// Redact.
func (r *SecretRedactor) RedactDeltaSet(deltas map[string]Delta) map[string]Delta {
	out := make(map[string]Delta, len(deltas))
	for k, d := range deltas {
		out[k] = Delta{Path: d.Path, Prev: r.Redact(d.Prev), Curr: r.Redact(d.Curr)}
	}
	return out
}
