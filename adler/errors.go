package adler

import "errors"

// ErrOutOfRange is returned by [Window] when start+length reaches past the
// end of the input.
var ErrOutOfRange = errors.New("adler: window is out of range")
