// The xmppmitm-proxy command runs an intercepting TLS proxy for XMPP,
// segmenting both directions' byte streams into stanzas and handing
// each one to a hook before it reaches its peer.
//
// For more information try running:
//
//	xmppmitm-proxy -help
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/xmppresearch/xmppmitm"
	"github.com/xmppresearch/xmppmitm/hook"
	"github.com/xmppresearch/xmppmitm/relay"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	debug := log.New(ioutil.Discard, "DEBUG ", log.LstdFlags)
	xmlDebug := log.New(ioutil.Discard, "XML ", log.LstdFlags)

	var (
		certFile    string
		listenAddr  string
		listenPort  int
		depth       int
		bypass      bool
		noModify    bool
		useWS       bool
		verbose     bool
		veryVerbose bool
	)

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage of %s:\n", flags.Name())
		fmt.Fprintf(flags.Output(), "\n  %s TARGET_ADDRESS TARGET_PORT [flags]\n\n", flags.Name())
		flags.PrintDefaults()
	}
	flags.StringVar(&certFile, "cert", xmppmitm.DefaultCertFile, "PEM file containing the listener's certificate and key")
	flags.StringVar(&listenAddr, "listen-address", xmppmitm.DefaultListenAddress, "address to listen on")
	flags.IntVar(&listenPort, "listen-port", xmppmitm.DefaultListenPort, "port to listen on")
	flags.IntVar(&depth, "depth", 0, "stanza depth threshold (0 uses the default of 2)")
	flags.BoolVar(&bypass, "bypass", false, "forward bytes verbatim without tokenizing either direction")
	flags.BoolVar(&noModify, "no-modification", false, "run hooks for observation but always forward the original bytes")
	flags.BoolVar(&useWS, "websocket", false, "accept RFC 7395 XMPP-over-WebSocket connections instead of raw TLS")
	flags.BoolVar(&verbose, "v", false, "turns on verbose debug logging")
	flags.BoolVar(&veryVerbose, "vv", false, "turns on verbose debug and stanza-dump logging")

	switch err := flags.Parse(os.Args[1:]); err {
	case flag.ErrHelp:
		return
	case nil:
	default:
		logger.Fatal(err)
	}

	if flags.NArg() != 2 {
		flags.Usage()
		os.Exit(2)
	}
	targetAddr := flags.Arg(0)
	targetPort, err := strconv.Atoi(flags.Arg(1))
	if err != nil {
		logger.Fatalf("invalid target port %q: %v", flags.Arg(1), err)
	}

	if verbose || veryVerbose {
		debug.SetOutput(os.Stderr)
	}
	if veryVerbose {
		xmlDebug.SetOutput(os.Stderr)
	}

	cfg := &xmppmitm.Config{
		ListenAddress:  listenAddr,
		ListenPort:     listenPort,
		CertFile:       certFile,
		TargetHost:     targetAddr,
		TargetPort:     targetPort,
		Depth:          depth,
		Bypass:         bypass,
		NoModification: noModify,
		ClientHook:     hook.Reference,
		ServerHook:     hook.Reference,
		Logger:         debug,
	}
	if veryVerbose {
		cfg.Debug = xmlDebug
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-ctx.Done():
		case <-c:
			cancel()
		}
	}()

	laddr := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)

	if useWS {
		logger.Printf("listening (websocket) on %s, forwarding to %s:%d", laddr, cfg.TargetHost, cfg.TargetPort)
		if err := relay.ListenWebSocket(ctx, laddr, cfg.CertFile, cfg); err != nil {
			logger.Fatal(err)
		}
		return
	}

	l, err := relay.Listen("tcp", laddr, cfg.CertFile, cfg)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("listening on %s, forwarding to %s:%d", laddr, cfg.TargetHost, cfg.TargetPort)
	if err := l.Serve(ctx); err != nil {
		logger.Fatal(err)
	}
}
