// Package relay implements the per-connection forwarding engine: dial
// the upstream target, wire both directions through a stream
// processor, and enforce connection lifecycle.
package relay

import (
	"context"
	"net"

	"github.com/xmppresearch/xmppmitm"
	"github.com/xmppresearch/xmppmitm/internal"
)

// Forwarder serves accepted downstream connections against one
// upstream target, as described by Config.
type Forwarder struct {
	Config *xmppmitm.Config
}

// Serve takes ownership of client: it dials the upstream target
// (retrying with capped backoff until ctx is done), pumps both
// directions through a fresh StreamProcessor, and closes client before
// returning. It blocks until the session ends.
//
// Serve does not attempt to detect the client disconnecting while a
// dial retry is in flight: doing so would mean reading bytes off a
// connection with no upstream yet to forward them to, which would
// silently drop the client's stream header on ordinary (non-aborted)
// connections arriving during transient upstream unavailability.
// Abandoned connections during an extended outage are bounded only by
// process shutdown cancelling ctx; admission control is out of scope.
func (f *Forwarder) Serve(ctx context.Context, client net.Conn) {
	defer client.Close()
	cfg := f.Config
	id := internal.ConnID()

	cfg.Logf("relay[%s]: accepted %s", id, client.RemoteAddr())

	upstream, err := dialUpstream(ctx, cfg)
	if err != nil {
		cfg.Logf("relay[%s]: giving up on upstream %s:%d: %v", id, cfg.TargetHost, cfg.TargetPort, err)
		return
	}
	defer upstream.Close()
	cfg.Logf("relay[%s]: connected upstream", id)

	sp := xmppmitm.NewStreamProcessor(cfg)
	if err := pump(client, upstream, sp); err != nil {
		cfg.Logf("relay[%s]: closed: %v", id, err)
		return
	}
	cfg.Logf("relay[%s]: closed", id)
}
