package utils

import "fmt"

const bytesPerKilobyte = 1024.0

// FormatFileSize converts a byte length into a human-readable string with one decimal,
// using the largest unit that keeps the value at or above one.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(bytes)
	unitIndex := 0
	for value >= bytesPerKilobyte && unitIndex < len(units)-1 {
		value /= bytesPerKilobyte
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%d %s", bytes, units[unitIndex])
	}
	return fmt.Sprintf("%.1f %s", value, units[unitIndex])
}

// FormatMegabytes renders bytes as megabytes with two decimals.
func FormatMegabytes(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/bytesPerKilobyte/bytesPerKilobyte)
}
