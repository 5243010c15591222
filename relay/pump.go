// Copyright 2015 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package relay

import (
	"io"
	"net"

	"github.com/xmppresearch/xmppmitm"
)

// pumpResult carries the terminal error for one direction of a pump,
// tagged by which side produced it.
type pumpResult struct {
	side string // "client" or "upstream"
	err  error
}

// pump launches a goroutine per direction, reading from one side,
// running the chunk through the stream processor, and writing the
// result to the other side. It blocks until both directions have
// terminated (one side erroring closes both connections, unblocking
// the other's pending read) and returns the error of the direction that
// terminated first (nil if that direction ended with a clean io.EOF).
//
// This mirrors the teacher's ConnManager: two goroutines racing against
// a shared termination signal, except the signal here is "close both
// net.Conns" rather than a quit channel, since closing a net.Conn is
// itself what unblocks a pending Read.
func pump(client, upstream net.Conn, sp *xmppmitm.StreamProcessor) error {
	results := make(chan pumpResult, 2)

	go func() {
		results <- pumpResult{side: "client", err: copyDirection(client, upstream, sp.ClientChunk)}
	}()
	go func() {
		results <- pumpResult{side: "upstream", err: copyDirection(upstream, client, sp.ServerChunk)}
	}()

	first := <-results
	// Closing both conns is what unblocks whichever side is still
	// blocked in Read, propagating the close per the forwarder contract.
	client.Close()
	upstream.Close()
	<-results

	return first.err
}

// copyDirection reads chunks from r, runs them through process, and
// writes the result to w, until r.Read fails (including io.EOF) or a
// write fails.
func copyDirection(r net.Conn, w net.Conn, process func([]byte) ([]byte, error)) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out, perr := process(buf[:n])
			if perr != nil {
				return perr
			}
			if len(out) > 0 {
				if _, werr := w.Write(out); werr != nil {
					return werr
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
