// Package fingerprint produces a short, stable digest of a stanza's
// string form for debug-log correlation, without printing the raw
// payload twice across two directions' logs.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Of returns a short hex digest of s. It is not a security primitive;
// it exists only so a human reading two debug logs can tell that a
// stanza logged on the server side is the same stanza logged (possibly
// rewritten) on the client side.
func Of(s string) string {
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
