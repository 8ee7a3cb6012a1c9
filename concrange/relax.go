package concrange

// Relax issues one CPU spin-wait hint. Exposed for schedulers that busy-wait between
// steal attempts and want the same backoff the range lock uses.
func Relax() {
	cpuRelax()
}
