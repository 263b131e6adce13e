// Package rename normalizes recording file names.
package rename

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var audioExts = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".aac": {},
	".m4a": {},
}

var lower = cases.Lower(language.Und)

// IsAudio reports whether name carries one of the audio extensions the
// recorders produce.
func IsAudio(name string) bool {
	_, ok := audioExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Normalize lowercases name, abbreviates "noise" to "n" and turns dashes into
// underscores. Applying it twice gives the same result as applying it once.
func Normalize(name string) string {
	s := lower.String(name)
	// "nnoiseoise" collapses to "nnoise" on a single pass.
	for strings.Contains(s, "noise") {
		s = strings.ReplaceAll(s, "noise", "n")
	}
	return strings.ReplaceAll(s, "-", "_")
}
