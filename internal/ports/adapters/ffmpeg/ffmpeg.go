package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, in string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// SpliceAudio re-encodes [start, end] of in as MP3.
func (a *Adapter) SpliceAudio(ctx context.Context, in string, start, end time.Duration, outMP3 string) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
		"-vn",
	}
	args = append(args, audioCodecArgs(".mp3")...)
	args = append(args, outMP3)
	return a.run(ctx, "splice audio", args)
}

// ConvertAudio transcodes in to the container implied by out's extension.
func (a *Adapter) ConvertAudio(ctx context.Context, in, out string) error {
	args := []string{"-y", "-i", in, "-vn"}
	args = append(args, audioCodecArgs(filepath.Ext(out))...)
	args = append(args, out)
	return a.run(ctx, "convert audio", args)
}

// DecodeWAV writes in as 16-bit PCM WAV, keeping rate and channels.
func (a *Adapter) DecodeWAV(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "decode wav", []string{
		"-y",
		"-i", in,
		"-vn",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outWav,
	})
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "extract audio", []string{
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	})
}

// CutClip cuts [start, end] of in. Video clips are H.264/AAC; audio clips
// follow out's extension.
func (a *Adapter) CutClip(ctx context.Context, in string, start, end time.Duration, out string, video bool) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
	}
	if video {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "18",
			"-c:a", "aac",
			"-b:a", "192k",
		)
	} else {
		args = append(args, "-vn")
		args = append(args, audioCodecArgs(filepath.Ext(out))...)
	}
	args = append(args, out)
	return a.run(ctx, "cut clip", args)
}

func (a *Adapter) run(ctx context.Context, what string, args []string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", what, err, string(b))
	}
	return nil
}

func audioCodecArgs(ext string) []string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return []string{"-c:a", "libmp3lame", "-q:a", "2"}
	case ".wav":
		return []string{"-c:a", "pcm_s16le"}
	case ".m4a", ".aac":
		return []string{"-c:a", "aac", "-b:a", "192k"}
	case ".flac":
		return []string{"-c:a", "flac"}
	default:
		return nil
	}
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
