// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package relay

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/idna"

	"github.com/xmppresearch/xmppmitm"
	"github.com/xmppresearch/xmppmitm/internal/backoff"
)

// dialUpstream connects to cfg's target, retrying with capped
// exponential backoff until it succeeds or ctx is done. Peer
// certificate verification is disabled: this is a research proxy
// meant to intercept, not a hardened TLS client.
func dialUpstream(ctx context.Context, cfg *xmppmitm.Config) (net.Conn, error) {
	host, err := idna.Lookup.ToASCII(cfg.TargetHost)
	if err != nil {
		// Not every target is an IDN hostname; fall back to whatever the
		// operator typed (a literal IP address, for instance).
		host = cfg.TargetHost
	}
	addr := net.JoinHostPort(host, strconv.Itoa(cfg.TargetPort))

	var b backoff.Backoff
	dialer := &net.Dialer{}
	for {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			tlsConn := tls.Client(conn, &tls.Config{InsecureSkipVerify: true})
			hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = tlsConn.HandshakeContext(hctx)
			cancel()
			if err == nil {
				return tlsConn, nil
			}
			conn.Close()
			cfg.Logf("relay: upstream %s: tls handshake: %v", addr, err)
		} else {
			cfg.Logf("relay: upstream %s: dial: %v", addr, err)
		}

		delay := b.Next()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
