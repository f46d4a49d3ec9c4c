package xferlib

import "fmt"

// Size unit constants for byte conversions.
const (
	B  int64 = 1
	KB       = 1024 * B
	MB       = 1024 * KB
	GB       = 1024 * MB
	TB       = 1024 * GB
)

const (
	// ChunkSize is the fixed buffer size used by the streaming loop.
	ChunkSize = 16 * KB

	// DefaultUserAgent is used when Params.UserAgent is empty.
	DefaultUserAgent = "NetGet/1.0"

	// DefaultRetryCount is applied when the CLI does not override it.
	DefaultRetryCount = 3

	// DefaultFileMode is the permission mode for sink output files.
	DefaultFileMode = 0644
)

// FormatBytes renders n using binary prefixes (KiB, MiB, GiB, TiB) with one
// decimal place, or a bare byte count below 1 KiB.
func FormatBytes(n uint64) string {
	switch {
	case n >= uint64(TB):
		return fmt.Sprintf("%.1f TiB", float64(n)/float64(TB))
	case n >= uint64(GB):
		return fmt.Sprintf("%.1f GiB", float64(n)/float64(GB))
	case n >= uint64(MB):
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(MB))
	case n >= uint64(KB):
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatDuration renders d as HH:MM:SS for d ≥ 1 minute, else "X.Y sec".
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1f sec", seconds)
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
