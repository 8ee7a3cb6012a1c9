//go:build (amd64 || arm64) && !noasm

package concrange

// cpuRelax emits the architecture spin-wait hint (PAUSE on x86-64, YIELD on ARM64).
// Bodies live in relax_amd64.s and relax_arm64.s.
func cpuRelax()
