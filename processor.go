// Package xmppmitm implements the bidirectional stanza-level stream
// processor at the heart of the proxy: one tokenizer and extractor per
// direction, shared hook state, and the two entry points a connection
// forwarder calls with raw bytes off the wire.
package xmppmitm

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/xmppresearch/xmppmitm/extract"
	"github.com/xmppresearch/xmppmitm/hook"
	"github.com/xmppresearch/xmppmitm/internal/xmldebug"
	"github.com/xmppresearch/xmppmitm/token"
)

// direction distinguishes the two independent pipelines a
// StreamProcessor owns. Nothing but the opaque hook State crosses
// between them.
type direction struct {
	tok *token.Tokenizer
	ex  *extract.Extractor
	hk  hook.Func
	tag string // "client" or "server", for log messages only
}

// StreamProcessor owns one tokenizer+extractor per direction plus
// shared hook state. ClientChunk and ServerChunk are its two entry
// points; neither is safe to call concurrently with the other from the
// same direction, but the two directions may be driven from separate
// goroutines since they share nothing but State, and hook calls are
// serialized across both directions.
type StreamProcessor struct {
	cfg    *Config
	client direction
	server direction
	state  hook.State
	hookMu sync.Mutex
}

// NewStreamProcessor returns a StreamProcessor configured per cfg. cfg
// is retained; it must not be mutated for the lifetime of the
// processor.
func NewStreamProcessor(cfg *Config) *StreamProcessor {
	threshold := cfg.threshold()
	return &StreamProcessor{
		cfg: cfg,
		client: direction{
			tok: token.New(),
			ex:  extract.New(threshold),
			hk:  cfg.clientHook(),
			tag: "client",
		},
		server: direction{
			tok: token.New(),
			ex:  extract.New(threshold),
			hk:  cfg.serverHook(),
			tag: "server",
		},
		state: hook.State{},
	}
}

// ClientChunk processes a chunk read from the downstream client,
// returning the bytes to write to the upstream server.
func (p *StreamProcessor) ClientChunk(chunk []byte) ([]byte, error) {
	return p.process(&p.client, chunk)
}

// ServerChunk processes a chunk read from the upstream server,
// returning the bytes to write to the downstream client.
func (p *StreamProcessor) ServerChunk(chunk []byte) ([]byte, error) {
	return p.process(&p.server, chunk)
}

func (p *StreamProcessor) process(d *direction, chunk []byte) ([]byte, error) {
	if p.cfg.Bypass {
		return chunk, nil
	}
	if !utf8.Valid(chunk) {
		return nil, fmt.Errorf("xmppmitm: %s: %w", d.tag, ErrMalformedUTF8)
	}

	toks := d.tok.Write(nil, chunk)

	var out []byte
	for _, tt := range toks {
		seq, ok, err := d.ex.Add(tt)
		if err != nil {
			return nil, fmt.Errorf("xmppmitm: %s: %w", d.tag, err)
		}
		if !ok {
			continue
		}

		if seq.Complete && p.cfg.Debug != nil {
			xmldebug.Dump(p.cfg.Debug, d.tag, seq.String())
		}

		result, dropped, hookErr := p.invokeHook(d, seq)
		if hookErr != nil {
			p.cfg.Logf("xmppmitm: %s: hook: %v", d.tag, hookErr)
			out = append(out, seq.String()...)
			continue
		}
		if dropped {
			continue
		}
		out = append(out, result...)
	}

	if p.cfg.NoModification {
		return chunk, nil
	}
	return out, nil
}

// invokeHook runs the direction's hook over seq, recovering a panic the
// same way a returned error is handled: log it, forward the sequence
// unchanged. A non-nil err means the caller should log it and forward
// seq unchanged; dropped means the hook explicitly returned nil and
// nothing should be written.
func (p *StreamProcessor) invokeHook(d *direction, seq extract.TokenSequence) (result []byte, dropped bool, err error) {
	p.hookMu.Lock()
	defer p.hookMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	v, hookErr := d.hk(p.state, seq)
	if hookErr != nil {
		return nil, false, hookErr
	}
	if v == nil {
		return nil, true, nil
	}
	switch t := v.(type) {
	case string:
		return []byte(t), false, nil
	case fmt.Stringer:
		return []byte(t.String()), false, nil
	default:
		return nil, false, ErrHookResult
	}
}
