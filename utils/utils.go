package utils

import (
	"os"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities: Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Itoa formats a signed integer in base 10 without fmt.
func Itoa(n int) string {
	return I64toa(int64(n))
}

// I64toa formats an int64 in base 10 without fmt.
func I64toa(n int64) string {
	var buf [20]byte
	i := len(buf)
	u := uint64(n)
	if n < 0 {
		u = uint64(-n) // MinInt64 wraps to itself, which is the right magnitude
	}
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	if n < 0 {
		return "-" + string(buf[i:])
	}
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Hashing
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value.
// Used as the per-index workload in loop runs so every index has a distinct,
// order-independent output.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

///////////////////////////////////////////////////////////////////////////////
// Cold-Path Output
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr. The write error is dropped: there is
// nowhere left to report it.
func PrintWarning(msg string) {
	if len(msg) == 0 {
		return
	}
	_, _ = os.Stderr.Write(unsafe.Slice(unsafe.StringData(msg), len(msg)))
}

// PrintInfo writes msg to stdout.
func PrintInfo(msg string) {
	if len(msg) == 0 {
		return
	}
	_, _ = os.Stdout.Write(unsafe.Slice(unsafe.StringData(msg), len(msg)))
}
