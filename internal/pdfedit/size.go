package pdfedit

import "fmt"

// FormatFileSize renders a byte count for display: "512 B", "1.5 KB", "2.0 MB".
// Tenths are rounded half up.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		tenths := (bytes*10 + 512) / 1024
		return fmt.Sprintf("%d.%d KB", tenths/10, tenths%10)
	default:
		tenths := (bytes*10 + 1<<19) >> 20
		return fmt.Sprintf("%d.%d MB", tenths/10, tenths%10)
	}
}
