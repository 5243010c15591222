package token

import "testing"

func concat(toks []Token) string {
	var b []byte
	for _, t := range toks {
		b = append(b, t.Text...)
	}
	return string(b)
}

func TestTokenizerRoundTrip(t *testing.T) {
	inputs := []string{
		`<a><A1 uwu="magic"><A2><A3>uwu</A3></A2></A1></a>`,
		`<stream:stream><iq to='x' id='1'/></stream:stream>`,
		`<?xml version='1.0'?><stream:stream>hello<m>x</m></stream:stream>`,
		`<blah a="B>C">inner</blah>`,
	}
	for _, in := range inputs {
		tok := New()
		toks := tok.Write(nil, []byte(in))
		if got := concat(toks); got != in {
			t.Errorf("round trip mismatch: got %q, want %q", got, in)
		}
	}
}

func TestTokenizerChunkInvariance(t *testing.T) {
	in := `<a><A1 uwu="magic"><A2><A3>uwu</A3></A2></A1></a>`

	whole := New().Write(nil, []byte(in))

	chunked := New()
	var got []Token
	for i := 0; i < len(in); i++ {
		got = chunked.Write(got, []byte{in[i]})
	}

	if len(whole) != len(got) {
		t.Fatalf("token count differs: whole=%d chunked=%d", len(whole), len(got))
	}
	for i := range whole {
		if whole[i] != got[i] {
			t.Errorf("token %d differs: whole=%+v chunked=%+v", i, whole[i], got[i])
		}
	}
}

func TestTokenizerEmptyContentBetweenTags(t *testing.T) {
	tok := New()
	toks := tok.Write(nil, []byte(`<a></a>`))
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens (leading empty content, open, empty content, close), got %d: %+v", len(toks), toks)
	}
	if toks[2].Kind != Content || toks[2].Text != "" {
		t.Errorf("expected empty Content token between tags, got %+v", toks[2])
	}
}

func TestTokenizerQuoteHandling(t *testing.T) {
	tok := New()
	toks := tok.Write(nil, []byte(`<blah a="B>C">`))
	if len(toks) != 2 {
		t.Fatalf("expected a leading empty content token and the whole tag as one token, got %d: %+v", len(toks), toks)
	}
	if toks[1].Text != `<blah a="B>C">` {
		t.Errorf("unexpected token text %q", toks[1].Text)
	}
}

func TestTokenizerSelfContained(t *testing.T) {
	tok := New()
	toks := tok.Write(nil, []byte(`<iq to='juliet@capulet.com' type='result' id='vc1'/>`))
	if len(toks) != 2 || toks[1].Kind != Markup {
		t.Fatalf("expected a leading empty content token and a single markup token, got %+v", toks)
	}
}
