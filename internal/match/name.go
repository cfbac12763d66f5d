package match

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Matches filenames like "Arsenal 2 - 1 Chelsea" including two-word team
	// names and an en dash between the scores.
	scorelinePattern = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(\d+)\s*[-–]\s*(\d+)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Name derives the artifact prefix for a match from its video filename.
// "Arsenal 2 - 1 Chelsea.mp4" becomes "Arsenal_vs_Chelsea_2-1"; filenames
// without a recognizable scoreline fall back to a sanitized stem.
func Name(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if m := scorelinePattern.FindStringSubmatch(stem); m != nil {
		team1 := strings.ReplaceAll(m[1], " ", "_")
		team2 := strings.ReplaceAll(m[4], " ", "_")
		return fmt.Sprintf("%s_vs_%s_%s-%s", team1, team2, m[2], m[3])
	}

	clean := unsafeChars.ReplaceAllString(stem, "")
	clean = whitespace.ReplaceAllString(strings.TrimSpace(clean), "_")
	if len(clean) > 50 {
		clean = clean[:50]
	}
	if clean == "" {
		clean = "match"
	}
	return clean
}
