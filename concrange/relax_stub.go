// relax_stub.go: no-op spin hint for architectures without PAUSE/YIELD or noasm builds.

//go:build (!amd64 && !arm64) || noasm

package concrange

//go:nosplit
func cpuRelax() {}
