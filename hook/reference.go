package hook

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const sentinel = "REPLACEME"

// Reference is the research hook shipped with the proxy. It scans the
// string form of each complete stanza for the literal sentinel
// REPLACEME<base64>REPLACEME; if found, the decoded payload becomes the
// entire outgoing stanza, discarding whatever tags and text surrounded
// the sentinel pair — this is the smuggling behavior the proxy exists
// to exercise: a payload that never had to serialize safely as XML to
// reach the wire. Anything else — pass-through fragments, complete
// stanzas without the sentinel — passes through unchanged.
func Reference(_ State, seq Sequencer) (interface{}, error) {
	if !seq.IsComplete() {
		return seq, nil
	}
	body := seq.String()

	start := strings.Index(body, sentinel)
	if start < 0 {
		return seq, nil
	}
	rest := body[start+len(sentinel):]
	end := strings.Index(rest, sentinel)
	if end < 0 {
		return seq, nil
	}
	encoded := rest[:end]

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return seq, fmt.Errorf("hook: reference: decode payload: %w", err)
	}

	return string(decoded), nil
}
