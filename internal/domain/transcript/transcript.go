// Package transcript reads word-timed speech recognition output and names the
// per-word clips cut from it.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/bioprep/internal/types"
)

// Suffix marks transcript files; the rest of the name is the media stem.
const Suffix = "_transcript.json"

// MediaExts is the lookup order for the media file behind a transcript.
var MediaExts = []string{".mp4", ".mp3", ".wav", ".m4a"}

var (
	videoExts = []string{".mp4", ".mov", ".avi", ".mkv"}
	audioExts = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}
)

type rawWord struct {
	Text  string  `json:"text"`
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type rawTranscript struct {
	Words    *[]rawWord `json:"words"`
	Segments []struct {
		Words []rawWord `json:"words"`
	} `json:"segments"`
	// whisper.cpp -oj; with -ml 1 every entry is a single word.
	Transcription []struct {
		Offsets struct {
			From float64 `json:"from"`
			To   float64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Parse accepts a top-level "words" array, words nested in "segments", or a
// whisper.cpp "transcription" list with millisecond offsets. A word's text
// may be under "text" or "word".
func Parse(b []byte) (types.Transcript, error) {
	var raw rawTranscript
	if err := json.Unmarshal(b, &raw); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	var words []rawWord
	if raw.Words != nil {
		words = *raw.Words
	} else {
		for _, s := range raw.Segments {
			words = append(words, s.Words...)
		}
		if len(raw.Segments) == 0 {
			for _, e := range raw.Transcription {
				words = append(words, rawWord{Text: e.Text, Start: e.Offsets.From / 1000, End: e.Offsets.To / 1000})
			}
		}
	}
	tr := types.Transcript{Words: make([]types.Word, 0, len(words))}
	for _, w := range words {
		text := w.Text
		if text == "" {
			text = w.Word
		}
		tr.Words = append(tr.Words, types.Word{Text: strings.TrimSpace(text), Start: w.Start, End: w.End})
	}
	return tr, nil
}

// Load reads and parses a transcript file.
func Load(path string) (types.Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	return Parse(b)
}

// Marshal renders tr in the top-level "words" shape Parse accepts.
func Marshal(tr types.Transcript) ([]byte, error) {
	return json.MarshalIndent(tr, "", "  ")
}

// IsTranscript reports whether name ends in the transcript suffix, ignoring case.
func IsTranscript(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Suffix)
}

// MediaStem strips the transcript suffix from name.
func MediaStem(name string) string {
	if !IsTranscript(name) {
		return name
	}
	return name[:len(name)-len(Suffix)]
}

// FileName is the transcript file name for a media stem.
func FileName(stem string) string { return stem + Suffix }

// FindMedia returns the first existing dir/stem+ext in MediaExts order.
func FindMedia(dir, stem string) (string, bool) {
	for _, ext := range MediaExts {
		p := filepath.Join(dir, stem+ext)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

func IsVideo(path string) bool { return hasExt(path, videoExts) }
func IsAudio(path string) bool { return hasExt(path, audioExts) }

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ClipName builds "<media>_word_<idx>_<word><ext>". Spaces in the word become
// underscores and path separators are dropped.
func ClipName(media string, idx int, word, ext string) string {
	w := strings.TrimSpace(word)
	w = strings.ReplaceAll(w, " ", "_")
	w = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return -1
		}
		return r
	}, w)
	return fmt.Sprintf("%s_word_%d_%s%s", media, idx, w, ext)
}
