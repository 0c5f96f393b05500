//go:build !windows

package notify

// Non-Windows platforms rely on the log line already written by
// ShowBlockingError.
func showBlockingDialog(title, message string) {}
