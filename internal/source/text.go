package source

import "strings"

// summarize returns the first line of a commit message, shortened to n runes.
func summarize(msg string, n int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return truncate(strings.TrimSpace(line), n)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
