// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go - Cold-path diagnostics for loop runs
//
// Purpose:
//   - Logs phase transitions and failures of the CLI and the storage layer.
//   - Never used inside PopFront/PopBack or worker hot loops.
//
// Notes:
//   - Avoids fmt; messages are concatenated and written straight to stderr.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "concrange/utils"

// DropError logs prefix and err. A nil err logs the prefix alone.
//
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs a tagged message.
//
//go:inline
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
