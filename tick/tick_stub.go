// tick_stub.go: portable tick source for non-x86 or noasm builds.

//go:build !amd64 || noasm

package tick

import "time"

var epoch = time.Now()

// Read returns monotonic nanoseconds since process start.
func Read() Counter {
	return Counter(time.Since(epoch))
}
