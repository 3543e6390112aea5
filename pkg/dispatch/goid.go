package dispatch

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID parses the current goroutine id out of the runtime stack
// header ("goroutine N [status]:"). The header format has been stable since
// Go 1.4; executors use the id only as an identity token for Running, never
// for scheduling decisions.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	i := bytes.IndexByte(s, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(s[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
