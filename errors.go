package xmppmitm

import "errors"

// ErrMalformedUTF8 is returned by StreamProcessor when a chunk does not
// decode as UTF-8. XMPP mandates UTF-8 on the wire; a chunk that fails
// to decode is fatal for its direction and the caller must close the
// connection.
var ErrMalformedUTF8 = errors.New("xmppmitm: chunk is not valid UTF-8")

// ErrHookResult is returned when a hook returns a value with no usable
// string form (neither nil, a string, nor an fmt.Stringer). Like any
// other hook error, the caller logs it and forwards the original
// sequence unchanged.
var ErrHookResult = errors.New("xmppmitm: hook returned a value with no string form")
