package xmppmitm

import (
	"encoding/base64"
	"testing"

	"github.com/xmppresearch/xmppmitm/hook"
)

func TestStreamProcessorIdentityIdempotence(t *testing.T) {
	inputs := []string{
		`<stream:stream><iq to='x' id='1'/></stream:stream>`,
		`<a><A1 uwu="magic"><A2><A3>uwu</A3></A2></A1></a>`,
	}
	for _, in := range inputs {
		cfg := &Config{ClientHook: hook.Identity}
		sp := NewStreamProcessor(cfg)
		out, err := sp.ClientChunk([]byte(in))
		if err != nil {
			t.Fatalf("ClientChunk: %v", err)
		}
		if string(out) != in {
			t.Errorf("identity hook changed the output: got %q, want %q", out, in)
		}
	}
}

func TestStreamProcessorBypass(t *testing.T) {
	cfg := &Config{Bypass: true}
	sp := NewStreamProcessor(cfg)
	in := []byte(`<not<<even<valid`)
	out, err := sp.ClientChunk(in)
	if err != nil {
		t.Fatalf("ClientChunk: %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("bypass mode should forward bytes verbatim, got %q", out)
	}
}

func TestStreamProcessorNoModification(t *testing.T) {
	cfg := &Config{
		NoModification: true,
		ClientHook: func(state hook.State, seq hook.Sequencer) (interface{}, error) {
			return "TAMPERED", nil
		},
	}
	sp := NewStreamProcessor(cfg)
	in := `<stream:stream><iq to='x' id='1'/></stream:stream>`
	out, err := sp.ClientChunk([]byte(in))
	if err != nil {
		t.Fatalf("ClientChunk: %v", err)
	}
	if string(out) != in {
		t.Errorf("no-modification mode should forward the original bytes regardless of hook output, got %q", out)
	}
}

func TestStreamProcessorHookSubstitutionEndToEnd(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("HELLO"))
	in := "<stream:stream><msg>REPLACEME" + payload + "REPLACEME</msg></stream:stream>"

	cfg := &Config{ClientHook: hook.Reference}
	sp := NewStreamProcessor(cfg)
	out, err := sp.ClientChunk([]byte(in))
	if err != nil {
		t.Fatalf("ClientChunk: %v", err)
	}
	want := "<stream:stream>HELLO</stream:stream>"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestStreamProcessorMalformedUTF8(t *testing.T) {
	cfg := &Config{}
	sp := NewStreamProcessor(cfg)
	_, err := sp.ClientChunk([]byte{0xff, 0xfe, 0xfd})
	if err == nil {
		t.Fatal("expected an error for malformed UTF-8")
	}
}

func TestStreamProcessorHookPanicForwardsUnchanged(t *testing.T) {
	cfg := &Config{
		ClientHook: func(state hook.State, seq hook.Sequencer) (interface{}, error) {
			panic("boom")
		},
	}
	sp := NewStreamProcessor(cfg)
	in := `<stream:stream><iq to='x' id='1'/></stream:stream>`
	out, err := sp.ClientChunk([]byte(in))
	if err != nil {
		t.Fatalf("ClientChunk: %v", err)
	}
	if string(out) != in {
		t.Errorf("hook panic should forward the original sequence unchanged, got %q", out)
	}
}

func TestStreamProcessorDropsNil(t *testing.T) {
	cfg := &Config{
		ClientHook: func(state hook.State, seq hook.Sequencer) (interface{}, error) {
			if seq.IsComplete() {
				return nil, nil
			}
			return seq, nil
		},
	}
	sp := NewStreamProcessor(cfg)
	in := `<stream:stream><iq to='x' id='1'/></stream:stream>`
	out, err := sp.ClientChunk([]byte(in))
	if err != nil {
		t.Fatalf("ClientChunk: %v", err)
	}
	want := `<stream:stream></stream:stream>`
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
