package utils

import (
	"fmt"
	"strings"
	"time"
)

// ShortID returns the first 8 characters of an id, for log prefixes.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ExportFilename builds the download name for a rendered receipt,
// e.g. "receipt_1735689600000.png".
func ExportFilename(at time.Time, ext string) string {
	return fmt.Sprintf("receipt_%d.%s", at.UnixMilli(), strings.TrimPrefix(ext, "."))
}
