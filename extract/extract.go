// Package extract tracks XML element depth across a token stream and
// segments it into TokenSequences: pass-through fragments above the
// stanza boundary, and complete stanzas exactly at it.
package extract

import (
	"errors"
	"strings"

	"github.com/xmppresearch/xmppmitm/token"
)

// DefaultThreshold is the stanza depth used when a Config does not
// override it: the root stream element sits at depth 1, its direct
// children — stanzas — at depth 2.
const DefaultThreshold = 2

// ErrNegativeDepth is returned by Add when bookkeeping would drive the
// extractor's depth below zero. The input stream is malformed in a way
// the extractor cannot recover from; the caller must tear down the
// connection.
var ErrNegativeDepth = errors.New("extract: current depth went negative")

// TokenSequence is an ordered run of tokens with a completeness flag.
// When Complete is false the sequence holds tokens observed above the
// stanza threshold and is forwarded verbatim. When Complete is true the
// sequence spans exactly one element subtree rooted at the threshold
// depth, ready for hook invocation.
type TokenSequence struct {
	Tokens   []token.Token
	Complete bool
}

// String concatenates the text of every token in the sequence. For a
// sequence produced by an Extractor fed from a Tokenizer, this is
// byte-identical to the slice of input that produced it.
func (s TokenSequence) String() string {
	var b strings.Builder
	for _, t := range s.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// IsComplete reports whether s is a complete stanza, as opposed to a
// pass-through fragment. It satisfies hook.Sequencer.
func (s TokenSequence) IsComplete() bool {
	return s.Complete
}

// Extractor consumes a stream of Tokens from one direction and emits
// TokenSequences. It is not safe for concurrent use.
type Extractor struct {
	Threshold int

	depth int
	seq   TokenSequence
}

// New returns an Extractor configured with the given depth threshold.
// A threshold of 0 is treated as DefaultThreshold.
func New(threshold int) *Extractor {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Extractor{Threshold: threshold}
}

// Add appends tok to the sequence under construction and reports
// whether doing so completed a sequence (either a pass-through fragment
// or a complete stanza). It returns ErrNegativeDepth, and leaves the
// extractor's state unusable, if the token drives depth bookkeeping
// below zero — a fatal, connection-scoped condition per the caller.
func (e *Extractor) Add(tok token.Token) (TokenSequence, bool, error) {
	original := e.depth
	effective, next := original, original
	reset := false
	selfContained := false

	if tok.Kind == token.Markup {
		switch token.Classify(tok.Text) {
		case token.Reset:
			effective, next = 1, 0
			reset = true
		case token.Open:
			effective, next = original+1, original+1
		case token.Close:
			effective, next = original, original-1
		case token.SelfContained:
			effective, next = original+1, original
			selfContained = true
		case token.Declaration, token.Comment:
			effective, next = original, original
		}
	}

	e.seq.Tokens = append(e.seq.Tokens, tok)
	e.depth = next

	if e.depth < 0 {
		return TokenSequence{}, false, ErrNegativeDepth
	}

	switch {
	case reset:
		emitted := e.seq
		e.reset()
		return emitted, true, nil
	case effective < e.Threshold:
		emitted := e.seq
		e.reset()
		return emitted, true, nil
	case next < e.Threshold && e.Threshold <= original:
		emitted := e.seq
		emitted.Complete = true
		e.reset()
		return emitted, true, nil
	case selfContained && effective == e.Threshold:
		emitted := e.seq
		emitted.Complete = true
		e.reset()
		return emitted, true, nil
	default:
		return TokenSequence{}, false, nil
	}
}

func (e *Extractor) reset() {
	e.seq = TokenSequence{}
}
