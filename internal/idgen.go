// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package internal

import (
	"crypto/rand"
	"fmt"
	"io"
)

// ConnIDLen is the standard length, in hex characters, of a connection
// correlation ID used in log lines.
const ConnIDLen = 12

// ConnID generates a short random identifier used to tie together the
// log lines belonging to one accepted connection. If the OS's entropy
// pool can't produce random numbers, it panics; a proxy that cannot
// even label its own connections has no safe way to continue.
func ConnID() string {
	return randomID(ConnIDLen, cryptoReader{})
}

func randomID(n int, r io.Reader) string {
	b := make([]byte, (n/2)+(n&1))
	switch n, err := r.Read(b); {
	case err != nil:
		panic(err)
	case n != len(b):
		panic("could not read enough randomness")
	}

	return fmt.Sprintf("%x", b)[:n]
}

type cryptoReader struct{}

func (cryptoReader) Read(p []byte) (int, error) {
	return rand.Read(p)
}
