package transfer

import "fmt"

// Classify maps a mechanism's documented exit codes to a human-readable
// failure class. Classification is best-effort enrichment: codes vary
// between tool versions, so unrecognized codes are reported verbatim and
// nothing downstream branches on the result.
func Classify(tool string, exitCode int) string {
	switch tool {
	case "rsync":
		return classifyRsync(exitCode)
	case "scp", "ssh":
		return classifySecureShell(exitCode)
	default:
		return ""
	}
}

// classifyRsync follows the exit values documented in rsync(1).
func classifyRsync(exitCode int) string {
	switch exitCode {
	case 1:
		return "syntax or usage error"
	case 2:
		return "protocol incompatibility"
	case 3:
		return "file selection error"
	case 5:
		return "error starting client-server protocol"
	case 10:
		return "socket I/O error"
	case 11:
		return "file I/O error"
	case 12:
		return "protocol data stream error"
	case 23:
		return "partial transfer due to error"
	case 24:
		return "partial transfer, source files vanished"
	case 30:
		return "timeout in data send/receive"
	case 255:
		return "connection or authentication failure"
	default:
		return fmt.Sprintf("unrecognized exit code %d", exitCode)
	}
}

// classifySecureShell covers the ssh/scp family. 255 is the only code ssh
// itself reserves; anything else from ssh is the remote command's own exit
// status, and scp uses 1 for any transfer error.
func classifySecureShell(exitCode int) string {
	switch exitCode {
	case 1:
		return "transfer or remote command error"
	case 255:
		return "connection or authentication failure"
	default:
		return fmt.Sprintf("unrecognized exit code %d", exitCode)
	}
}
