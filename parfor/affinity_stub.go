// affinity_stub.go - no-op CPU affinity where sched_setaffinity(2) is unavailable

//go:build !linux

package parfor

// setAffinity reports false; workers still lock to OS threads but float freely.
func setAffinity(cpu int) bool {
	return false
}
