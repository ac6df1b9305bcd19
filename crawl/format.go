package crawl

import "fmt"

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatResult renders a one-line summary of a crawl run.
func FormatResult(r *Result) string {
	if r == nil {
		return ""
	}
	state := "drained"
	if r.Interrupted {
		state = "interrupted"
	}
	return fmt.Sprintf("%s: %d visited, %d queued (this run: %d fetched, %d failed, %d links admitted, %s)",
		state, r.Visited, r.Queued, r.Fetched, r.Failed, r.Admitted, FormatBytes(r.Bytes))
}
