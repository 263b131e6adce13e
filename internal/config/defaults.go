package config

const (
	defaultIDColumn         = "File"
	defaultManifestPath     = "data/timestamps.csv"
	defaultCacheDir         = ".cache"
	defaultWhisperBin       = ".cache/bin/whisper.cpp"
	defaultWhisperModel     = ".cache/models/ggml-base.bin"
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultAudioPadding     = 0.1
	defaultPadBefore        = 0.2
	defaultPadAfter         = 0.2
	defaultOffset           = 0.35
	defaultSegmentNaming    = "index"
	defaultHeaderSentinel   = "***End_of_Header***"
	defaultFrameSize        = 2048
	defaultHopSize          = 512
	defaultSampleRate       = 44100
	defaultTopDB            = 80
	defaultImageWidth       = 1000
	defaultImageHeight      = 600
	defaultColormap         = "inferno"
	defaultImageFormat      = "png"
	defaultLayout           = LayoutKeyword
	defaultImageManifest    = "data/image_timestamps.csv"
	defaultConvertFromExt   = ".m4a"
	defaultConvertToExt     = ".mp3"
	defaultAudioClipsDir    = "data/audio_clips"
	defaultAudioClipsOutDir = "output/audio_clips"
)

// Spectrogram layouts.
const (
	LayoutKeyword = "keyword"
	LayoutFlat    = "flat"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:       "ffmpeg",
			FFprobe:      "ffprobe",
			WhisperBin:   defaultWhisperBin,
			WhisperModel: defaultWhisperModel,
			CacheDir:     defaultCacheDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Manifest: Manifest{
			Path:     defaultManifestPath,
			IDColumn: defaultIDColumn,
		},
		SpliceAudio: SpliceAudio{
			InputDir:  defaultAudioClipsDir,
			OutputDir: defaultAudioClipsOutDir,
			Padding:   defaultAudioPadding,
		},
		ConvertAudio: ConvertAudio{
			InputDir:  defaultAudioClipsDir,
			OutputDir: defaultAudioClipsDir,
			FromExt:   defaultConvertFromExt,
			ToExt:     defaultConvertToExt,
		},
		SegmentData: SegmentData{
			InputDir:       "data/data_segments",
			OutputDir:      "output/data_segments",
			PadBefore:      defaultPadBefore,
			PadAfter:       defaultPadAfter,
			Offset:         defaultOffset,
			Naming:         defaultSegmentNaming,
			HeaderSentinel: defaultHeaderSentinel,
		},
		Spectrogram: Spectrogram{
			FrameSize:  defaultFrameSize,
			HopSize:    defaultHopSize,
			SampleRate: defaultSampleRate,
			TopDB:      defaultTopDB,
			Width:      defaultImageWidth,
			Height:     defaultImageHeight,
			Colormap:   defaultColormap,
			Format:     defaultImageFormat,
			Layout:     defaultLayout,
		},
		SpectrogramData: SpectrogramJob{
			InputDir:  "output/data_segments",
			WAVDir:    "output/data_wav_files",
			OutputDir: "output/data_spectrograms",
		},
		SpectrogramAudio: SpectrogramJob{
			InputDir:  defaultAudioClipsOutDir,
			WAVDir:    "output/audio_wav_files",
			OutputDir: "output/audio_spectrograms",
		},
		Rename: Rename{
			Dir: defaultAudioClipsDir,
		},
		Transcripts: Transcripts{
			TranscriptsDir: "output/transcripts",
			MediaDir:       "data/media",
			OutputDir:      "output/clips",
		},
		CropImages: CropImages{
			Manifest:  defaultImageManifest,
			IDColumn:  defaultIDColumn,
			InputDir:  "data/images",
			OutputDir: "output/image_crops",
		},
	}
}
