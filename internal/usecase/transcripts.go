package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/forPelevin/bioprep/internal/domain/transcript"
	"github.com/forPelevin/bioprep/internal/types"
)

type ClipTranscriptsInput struct {
	TranscriptsDir string
	MediaDir       string
	OutputDir      string
	// Transcribe runs speech recognition for media without a transcript
	// before clipping.
	Transcribe bool
	CacheDir   string
}

// ClipTranscripts cuts one clip per transcribed word. Video sources yield
// .mp4 clips and audio sources .mp3 clips, named
// <media>_word_<i>_<word>.<ext>.
func (u Usecase) ClipTranscripts(ctx context.Context, in ClipTranscriptsInput) (types.Report, error) {
	if err := ensureDir(in.OutputDir); err != nil {
		return types.Report{Job: JobClipTranscripts}, err
	}

	var pending []string
	if in.Transcribe {
		if err := ensureDir(in.TranscriptsDir); err != nil {
			return types.Report{Job: JobClipTranscripts}, err
		}
		var err error
		if pending, err = untranscribed(in.TranscriptsDir, in.MediaDir); err != nil {
			return types.Report{Job: JobClipTranscripts}, err
		}
	}
	names, err := listFiles(in.TranscriptsDir, transcript.IsTranscript)
	if err != nil {
		return types.Report{Job: JobClipTranscripts}, err
	}

	b := u.begin(JobClipTranscripts, len(pending)+len(names))
	fresh := map[string]bool{}
	for _, media := range pending {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()
		name, err := u.transcribe(ctx, in, media)
		if err != nil {
			b.fail(media, err)
			continue
		}
		b.wrote(media, filepath.Join(in.TranscriptsDir, name))
		fresh[name] = true
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		if !fresh[name] {
			b.item()
		}
		u.clipWords(ctx, b, in, name)
	}
	return b.done(), nil
}

func (u Usecase) clipWords(ctx context.Context, b *batch, in ClipTranscriptsInput, name string) {
	mediaStem := transcript.MediaStem(name)
	media, ok := transcript.FindMedia(in.MediaDir, mediaStem)
	if !ok {
		b.skip(name, "no media file for transcript", "media_dir", in.MediaDir)
		return
	}
	var ext string
	switch {
	case transcript.IsVideo(media):
		ext = ".mp4"
	case transcript.IsAudio(media):
		ext = ".mp3"
	default:
		b.skip(name, "unsupported media format", "media", media)
		return
	}
	tr, err := transcript.Load(filepath.Join(in.TranscriptsDir, name))
	if err != nil {
		b.fail(name, err)
		return
	}

	video := ext == ".mp4"
	for idx, w := range tr.Words {
		if err := ctx.Err(); err != nil {
			return
		}
		if w.End <= w.Start {
			b.skip(name, "word has no duration", "index", idx, "word", w.Text)
			continue
		}
		out := filepath.Join(in.OutputDir, transcript.ClipName(mediaStem, idx, w.Text, ext))
		if err := u.d.Media.CutClip(ctx, media, seconds(w.Start), seconds(w.End), out, video); err != nil {
			b.fail(name, fmt.Errorf("word %d %q: %w", idx, w.Text, err))
			continue
		}
		b.wrote(name, out)
	}
}

// transcribe writes <stem>_transcript.json for media and returns its name.
func (u Usecase) transcribe(ctx context.Context, in ClipTranscriptsInput, media string) (string, error) {
	if u.d.ASR == nil {
		return "", fmt.Errorf("speech recognition is not configured")
	}
	mediaStem := stem(media)
	work := filepath.Join(in.CacheDir, "transcribe", mediaStem)
	if err := os.MkdirAll(work, 0o755); err != nil {
		return "", err
	}
	wav := filepath.Join(work, "audio.wav")
	if err := u.d.Media.ExtractAudioMono16k(ctx, filepath.Join(in.MediaDir, media), wav); err != nil {
		return "", err
	}
	tr, err := u.d.ASR.Transcribe(ctx, wav, work)
	if err != nil {
		return "", err
	}
	body, err := transcript.Marshal(tr)
	if err != nil {
		return "", err
	}
	name := transcript.FileName(mediaStem)
	if err := os.WriteFile(filepath.Join(in.TranscriptsDir, name), body, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// untranscribed lists media files in mediaDir whose stem has no transcript
// in transcriptsDir, matching the transcript suffix in any case. When
// several files share a stem, the one FindMedia would pick is returned.
func untranscribed(transcriptsDir, mediaDir string) ([]string, error) {
	media, err := listFiles(mediaDir, func(name string) bool {
		return slices.Contains(transcript.MediaExts, strings.ToLower(filepath.Ext(name)))
	})
	if err != nil {
		return nil, err
	}
	existing, err := listFiles(transcriptsDir, transcript.IsTranscript)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		seen[transcript.MediaStem(name)] = struct{}{}
	}
	var out []string
	for _, name := range media {
		s := stem(name)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		path, ok := transcript.FindMedia(mediaDir, s)
		if !ok {
			continue
		}
		out = append(out, filepath.Base(path))
	}
	return out, nil
}
