// Package hook defines the pluggable stanza transformer contract that
// sits between the extractor and the wire.
package hook

// State is the per-connection mutable map shared by both directions'
// hooks. It starts out empty and is mutated only by hooks; because the
// StreamProcessor of one connection invokes its hooks one at a time,
// across both directions, no locking is required around it.
type State map[string]interface{}

// Sequencer is the view of a TokenSequence a hook is given: its string
// form and whether it is a complete stanza or a pass-through fragment.
// extract.TokenSequence satisfies this.
type Sequencer interface {
	String() string
	IsComplete() bool
}

// Func is a stanza hook. It may return the sequence it was given
// unchanged, a replacement value whose string form becomes the outgoing
// bytes (a string, or anything satisfying fmt.Stringer), or nil to drop
// the sequence entirely. Returning a non-nil error does not stop the
// pipeline: the caller logs the error and forwards the original
// sequence unchanged, exactly as if the hook had panicked.
type Func func(state State, seq Sequencer) (interface{}, error)

// Identity is a hook that never inspects or modifies a sequence. It is
// useful for bypass-equivalent configurations and in tests asserting
// the concatenation invariant.
func Identity(_ State, seq Sequencer) (interface{}, error) {
	return seq, nil
}
