// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package relay

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/xmppresearch/xmppmitm"
)

// Listener accepts TLS connections on a listen address and hands each
// one to a Forwarder.
type Listener struct {
	net.Listener

	config *xmppmitm.Config
}

// Listen announces on the local network address laddr, wrapping it in
// TLS using the certificate and key found (concatenated) in certFile.
// The network must be one of the stream-oriented networks supported by
// net.Listen.
func Listen(network, laddr, certFile string, config *xmppmitm.Config) (*Listener, error) {
	cert, err := tls.LoadX509KeyPair(certFile, certFile)
	if err != nil {
		return nil, err
	}
	tlsConfig := &tls.Config{Certificates: []tls.Certificate{cert}}

	l, err := tls.Listen(network, laddr, tlsConfig)
	if err != nil {
		return nil, err
	}
	return &Listener{Listener: l, config: config}, nil
}

// Serve accepts connections until ctx is cancelled or Accept returns a
// permanent error, dispatching each accepted connection to its own
// Forwarder goroutine. It returns the error that stopped the loop; a
// cancelled ctx is not reported as an error.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.Listener.Close()
	}()

	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		f := &Forwarder{Config: l.config}
		go f.Serve(ctx, conn)
	}
}
