// affinity_linux.go - Linux CPU affinity via sched_setaffinity(2)

//go:build linux

package parfor

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// setAffinity pins the calling OS thread to cpu. Out-of-range cores and syscall
// failures (restricted containers) leave the thread unpinned.
func setAffinity(cpu int) bool {
	if cpu < 0 || cpu >= runtime.NumCPU() {
		return false
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set) == nil
}
