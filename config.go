// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmppmitm

import (
	"log"

	"github.com/xmppresearch/xmppmitm/hook"
)

// Defaults matching the reference CLI.
const (
	DefaultListenAddress = "0.0.0.0"
	DefaultListenPort    = 1337
	DefaultCertFile      = "./certs/server.pem"
)

// Config represents the configuration of a proxied XMPP session: where
// to listen, where to forward to, how deep a stanza is, and the two
// hooks given the chance to touch traffic in each direction.
type Config struct {
	// ListenAddress and ListenPort are the downstream-facing TLS
	// listener's bind address.
	ListenAddress string
	ListenPort    int

	// CertFile is a PEM file containing the listener's certificate and
	// private key concatenated together.
	CertFile string

	// TargetHost and TargetPort name the upstream XMPP server this proxy
	// forwards to. TargetHost is IDN-normalized before dialing.
	TargetHost string
	TargetPort int

	// Depth is the stanza threshold passed to each direction's
	// extractor. Zero means extract.DefaultThreshold.
	Depth int

	// Bypass disables tokenization entirely; chunks are forwarded
	// verbatim in both directions.
	Bypass bool

	// NoModification runs tokenization and hook invocation for
	// observation, but always forwards the original bytes, discarding
	// any hook-produced rewrite.
	NoModification bool

	// ClientHook and ServerHook are invoked once per emitted sequence,
	// client-to-server and server-to-client respectively. A nil hook is
	// treated as hook.Identity.
	ClientHook hook.Func
	ServerHook hook.Func

	// Logger receives connection lifecycle and error messages. A nil
	// Logger disables logging.
	Logger *log.Logger

	// Debug, when non-nil, receives a pretty-printed dump of every
	// complete stanza before it reaches the hook. It is independent of
	// Logger so verbose stanza dumps can be enabled separately from
	// ordinary operational logging.
	Debug *log.Logger
}

func (c *Config) threshold() int {
	if c.Depth == 0 {
		return 0 // extract.New treats 0 as extract.DefaultThreshold
	}
	return c.Depth
}

func (c *Config) clientHook() hook.Func {
	if c.ClientHook == nil {
		return hook.Identity
	}
	return c.ClientHook
}

func (c *Config) serverHook() hook.Func {
	if c.ServerHook == nil {
		return hook.Identity
	}
	return c.ServerHook
}

// Logf writes a log line if c.Logger is configured; it is a no-op
// otherwise.
func (c *Config) Logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
