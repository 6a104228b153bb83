// Package utils holds small helpers shared by the HTTP layer and services.
package utils

import "strconv"

// AtoiDefault parses s, returning def when s is empty or not an integer.
func AtoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage parses raw page and page-size values. Pages start at 1; sizes
// fall in [1, maxSize] and default to defSize when absent or unparsable.
func ClampPage(pageRaw, sizeRaw string, defSize, maxSize int) (page, size int) {
	page = max(AtoiDefault(pageRaw, 1), 1)
	size = min(max(AtoiDefault(sizeRaw, defSize), 1), maxSize)
	return page, size
}

// TotalPages is the number of size-row pages needed for total rows.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Offset is the number of rows before page.
func Offset(page, size int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * size
}
