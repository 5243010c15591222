package token

import "strings"

// A Tokenizer converts a byte stream into an alternating sequence of
// Content and Markup tokens. It holds no buffering beyond the token
// currently being assembled, and preserves that state across calls to
// Write so a stream may be fed in arbitrarily sized chunks, down to one
// byte at a time.
//
// A Tokenizer is not safe for concurrent use; each directional stream
// owns exactly one.
type Tokenizer struct {
	kind               Kind
	buf                strings.Builder
	inSingle, inDouble bool
}

// New returns a Tokenizer ready to consume the start of a fresh stream.
func New() *Tokenizer {
	return &Tokenizer{kind: Content}
}

// Reset returns the Tokenizer to its initial state, as after a stream
// reset sentinel.
func (t *Tokenizer) Reset() {
	t.kind = Content
	t.buf.Reset()
	t.inSingle, t.inDouble = false, false
}

// Write feeds p through the tokenizer one byte at a time, appending each
// token completed along the way to dst, and returns the extended slice.
// The tokenizer emits zero or one token per input byte.
func (t *Tokenizer) Write(dst []Token, p []byte) []Token {
	for _, c := range p {
		dst = t.feed(dst, c)
	}
	return dst
}

func (t *Tokenizer) feed(dst []Token, c byte) []Token {
	switch t.kind {
	case Content:
		if c == '<' {
			dst = append(dst, Token{Kind: Content, Text: t.buf.String()})
			t.buf.Reset()
			t.kind = Markup
			t.inSingle, t.inDouble = false, false
			return t.feed(dst, c)
		}
		t.buf.WriteByte(c)
		return dst
	default: // Markup
		switch {
		case c == '"' && !t.inSingle:
			t.inDouble = !t.inDouble
		case c == '\'' && !t.inDouble:
			t.inSingle = !t.inSingle
		}
		t.buf.WriteByte(c)
		if t.inDouble || t.inSingle || c != '>' {
			return dst
		}
		dst = append(dst, Token{Kind: Markup, Text: t.buf.String()})
		t.buf.Reset()
		t.kind = Content
		return dst
	}
}
