package utils

const (
	// ApplicationExecutionFailedMessage prefixes fatal errors printed by the entry point.
	ApplicationExecutionFailedMessage = "pj failed"

	// WarningClipboardFormat is logged when the clipboard cannot be written.
	WarningClipboardFormat = "unable to copy output to clipboard: %v"
)
