// Package token implements the byte-level XML tokenizer shared by both
// directions of a proxied XMPP stream.
package token

// Kind distinguishes character data from markup.
type Kind int

const (
	// Content is character data between tags.
	Content Kind = iota
	// Markup is a single tag, including its delimiters.
	Markup
)

func (k Kind) String() string {
	switch k {
	case Content:
		return "content"
	case Markup:
		return "markup"
	default:
		return "unknown"
	}
}

// Token is a contiguous substring of one direction's XML byte stream.
// It carries only its raw text; no attribute model is derived here.
type Token struct {
	Kind Kind
	Text string
}
