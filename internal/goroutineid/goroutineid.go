// Package goroutineid extracts the current goroutine's runtime ID by
// parsing the header line of runtime.Stack's output. Go deliberately
// exposes no stable, documented goroutine-local storage; this is the usual
// reimplemented idiom for packages (including the teacher's own
// goroutineid package) that need one anyway, e.g. to detect "is the calling
// goroutine one I spawned myself" without threading an explicit flag
// through every call.
package goroutineid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Current returns the calling goroutine's runtime-assigned ID. The ID is
// only meaningful as an opaque comparison key for the goroutine's
// lifetime; it is reused after the goroutine exits.
func Current() uint64 {
	buf := make([]byte, 64)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}

	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
