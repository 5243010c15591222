package relay

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/xmppresearch/xmppmitm"
)

// xmppFramingSubprotocol is the WebSocket subprotocol token RFC 7395
// (the WebSocket binding the distilled spec's TLS-only listener
// dropped) requires clients to offer.
const xmppFramingSubprotocol = "xmpp-framing"

// ListenWebSocket serves RFC 7395 XMPP-over-WebSocket connections on
// laddr and feeds each one through the same Forwarder pipeline a raw
// TLS connection would use; stanza semantics are unaffected, only the
// framing differs. It blocks until ctx is done or the HTTP server
// stops for any other reason.
func ListenWebSocket(ctx context.Context, laddr, certFile string, cfg *xmppmitm.Config) error {
	wsServer := websocket.Server{
		Handshake: negotiateXMPPFraming,
		Handler: func(ws *websocket.Conn) {
			ws.PayloadType = websocket.TextFrame
			f := &Forwarder{Config: cfg}
			f.Serve(ctx, ws)
		},
	}

	mux := http.NewServeMux()
	mux.Handle("/xmpp-websocket", wsServer)

	srv := &http.Server{Addr: laddr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err := srv.ListenAndServeTLS(certFile, certFile)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// negotiateXMPPFraming implements the subprotocol negotiation half of
// RFC 7395 §3.2-3.3: refuse the handshake unless the client offered
// "xmpp-framing", and echo it back as the chosen subprotocol.
func negotiateXMPPFraming(cfg *websocket.Config, r *http.Request) error {
	for _, proto := range cfg.Protocol {
		if proto == xmppFramingSubprotocol {
			cfg.Protocol = []string{xmppFramingSubprotocol}
			return nil
		}
	}
	return fmt.Errorf("relay: websocket: client did not offer the %s subprotocol", xmppFramingSubprotocol)
}
