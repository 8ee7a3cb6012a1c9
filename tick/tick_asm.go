//go:build amd64 && !noasm

package tick

// Read returns the current time-stamp counter. Body in tick_amd64.s.
func Read() Counter
