package ports

import (
	"context"
	"time"

	"github.com/forPelevin/bioprep/internal/types"
)

// MediaTool is the external transcoder (ffmpeg/ffprobe).
type MediaTool interface {
	ProbeDuration(ctx context.Context, in string) (time.Duration, error)
	SpliceAudio(ctx context.Context, in string, start, end time.Duration, outMP3 string) error
	ConvertAudio(ctx context.Context, in, out string) error
	DecodeWAV(ctx context.Context, in, outWav string) error
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	CutClip(ctx context.Context, in string, start, end time.Duration, out string, video bool) error
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// WAVCodec reads and writes PCM wave files.
type WAVCodec interface {
	WritePCM16(path string, sampleRate int, pcm []int) error
	ReadMono(path string) (samples []float64, sampleRate int, err error)
}
