package assets

import (
	"embed"
	"strings"
)

//go:embed replies/*.txt
var RepliesFS embed.FS

// Replies returns the canned lines for a sentiment kind ("positive",
// "negative" or "mixed"). Unknown kinds yield nil.
func Replies(kind string) []string {
	b, err := RepliesFS.ReadFile("replies/" + kind + ".txt")
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
