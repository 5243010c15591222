// Package xmldebug pretty-prints captured stanzas for verbose debug
// logging. It never influences forwarding decisions; a stanza that
// fails to parse is logged raw instead of causing an error.
package xmldebug

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"log"
	"strings"

	"golang.org/x/text/language"
	"mellium.im/xmlstream"

	"github.com/xmppresearch/xmppmitm/internal/fingerprint"
)

var errEmpty = errors.New("xmldebug: stanza produced no tokens")

// Dump writes an indented rendering of stanza to logger, tagged with
// direction and a short fingerprint so the same stanza can be spotted
// in both directions' logs. Stanzas are proxy traffic, not necessarily
// well-formed in isolation (missing namespace bindings for prefixes
// declared on the stream root, for instance), so a decode failure just
// falls back to logging the raw text.
func Dump(logger *log.Logger, direction, stanza string) {
	if logger == nil {
		return
	}
	fp := fingerprint.Of(stanza)

	indented, err := indent(stanza)
	if err != nil {
		logger.Printf("xmldebug: %s [%s]: (unparsed) %s", direction, fp, stanza)
		return
	}
	logger.Printf("xmldebug: %s [%s]:\n%s", direction, fp, indented)

	if tag, ok := langTag(stanza); ok {
		logger.Printf("xmldebug: %s [%s]: xml:lang=%s", direction, fp, tag)
	}
}

func indent(stanza string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(stanza))
	indented := xmlstream.Indent(dec, "", "  ")

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	for {
		tok, err := indented.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", errEmpty
	}
	return buf.String(), nil
}

// langTag extracts an xml:lang attribute value from a bare stanza
// string, without a full XML parse (the attribute commonly appears on
// a stream-reset root tag, which is not a complete subtree by itself).
func langTag(stanza string) (string, bool) {
	const needle = `xml:lang=`
	i := strings.Index(stanza, needle)
	if i < 0 {
		return "", false
	}
	rest := stanza[i+len(needle):]
	if len(rest) == 0 {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	rest = rest[1:]
	end := strings.IndexByte(rest, quote)
	if end < 0 {
		return "", false
	}
	tag, err := language.Parse(rest[:end])
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
