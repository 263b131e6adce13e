package cli

import (
	"github.com/spf13/cobra"

	"github.com/forPelevin/bioprep/internal/config"
	"github.com/forPelevin/bioprep/internal/usecase"
)

// jobCommand builds a subcommand that runs job with defs bound as flags.
func jobCommand(use, short, job string, defs []flagDef, args cobra.PositionalArgs, adjust func(*config.Config, []string)) *cobra.Command {
	if args == nil {
		args = cobra.NoArgs
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			var fn func(*config.Config)
			if adjust != nil {
				fn = func(c *config.Config) { adjust(c, posArgs) }
			}
			return run(cmd, job, defs, fn)
		},
	}
	addFlags(cmd, defs)
	return cmd
}

func spliceAudioCommand() *cobra.Command {
	defs := append(manifestFlags(
		func(c *config.Config) *string { return &c.Manifest.Path },
		func(c *config.Config) *string { return &c.Manifest.IDColumn },
	),
		flagDef{name: "input", usage: "Directory with <id>.mp3 recordings", field: func(c *config.Config) any { return &c.SpliceAudio.InputDir }},
		flagDef{name: "output", usage: "Directory for clips", field: func(c *config.Config) any { return &c.SpliceAudio.OutputDir }},
		flagDef{name: "padding", usage: "Seconds added on both sides of every range", field: func(c *config.Config) any { return &c.SpliceAudio.Padding }},
	)
	return jobCommand("splice-audio", "Cut padded mp3 clips at manifest ranges", usecase.JobSpliceAudio, defs, nil, nil)
}

func convertAudioCommand() *cobra.Command {
	defs := []flagDef{
		{name: "input", usage: "Directory with source files", field: func(c *config.Config) any { return &c.ConvertAudio.InputDir }},
		{name: "output", usage: "Directory for converted files", field: func(c *config.Config) any { return &c.ConvertAudio.OutputDir }},
		{name: "from", usage: "Source extension", field: func(c *config.Config) any { return &c.ConvertAudio.FromExt }},
		{name: "to", usage: "Target extension", field: func(c *config.Config) any { return &c.ConvertAudio.ToExt }},
	}
	return jobCommand("convert-audio", "Transcode audio files, m4a to mp3 by default", usecase.JobConvertAudio, defs, nil, nil)
}

func segmentDataCommand() *cobra.Command {
	defs := append(manifestFlags(
		func(c *config.Config) *string { return &c.Manifest.Path },
		func(c *config.Config) *string { return &c.Manifest.IDColumn },
	),
		flagDef{name: "input", usage: "Directory with .data recordings", field: func(c *config.Config) any { return &c.SegmentData.InputDir }},
		flagDef{name: "output", usage: "Directory for CSV segments", field: func(c *config.Config) any { return &c.SegmentData.OutputDir }},
		flagDef{name: "pad-before", usage: "Seconds added before every range", field: func(c *config.Config) any { return &c.SegmentData.PadBefore }},
		flagDef{name: "pad-after", usage: "Seconds added after every range", field: func(c *config.Config) any { return &c.SegmentData.PadAfter }},
		flagDef{name: "offset", usage: "Seconds every range is shifted by", field: func(c *config.Config) any { return &c.SegmentData.Offset }},
		flagDef{name: "naming", usage: "Segment naming: index or start-ms", field: func(c *config.Config) any { return &c.SegmentData.Naming }},
		flagDef{name: "header-sentinel", usage: "Line marking the end of the .data header", field: func(c *config.Config) any { return &c.SegmentData.HeaderSentinel }},
	)
	return jobCommand("segment-data", "Cut .data recordings into CSV segments at manifest ranges", usecase.JobSegmentData, defs, nil, nil)
}

func spectrogramCommand() *cobra.Command {
	parent := &cobra.Command{
		Use:   "spectrogram",
		Short: "Render spectrograms from data segments or audio clips",
	}
	dirs := func(job func(*config.Config) *config.SpectrogramJob) []flagDef {
		return []flagDef{
			{name: "input", usage: "Input directory", field: func(c *config.Config) any { return &job(c).InputDir }},
			{name: "wav-dir", usage: "Directory for intermediate WAV files", field: func(c *config.Config) any { return &job(c).WAVDir }},
			{name: "output", usage: "Directory for images", field: func(c *config.Config) any { return &job(c).OutputDir }},
		}
	}
	data := append(dirs(func(c *config.Config) *config.SpectrogramJob { return &c.SpectrogramData }), spectrogramFlags()...)
	audio := append(dirs(func(c *config.Config) *config.SpectrogramJob { return &c.SpectrogramAudio }), spectrogramFlags()...)

	parent.AddCommand(
		jobCommand("data", "Spectrograms of Time,Current CSV segments", usecase.JobDataSpectrograms, data, nil, nil),
		jobCommand("audio", "Spectrograms of mp3 clips", usecase.JobAudioSpectrograms, audio, nil, nil),
	)
	return parent
}

func renameCommand() *cobra.Command {
	defs := []flagDef{
		{name: "dir", usage: "Directory with audio files", field: func(c *config.Config) any { return &c.Rename.Dir }},
	}
	return jobCommand("rename [dir]", "Normalize audio file names in place", usecase.JobRename, defs,
		cobra.MaximumNArgs(1),
		func(c *config.Config, args []string) {
			if len(args) == 1 {
				c.Rename.Dir = args[0]
			}
		})
}

func clipTranscriptsCommand() *cobra.Command {
	defs := []flagDef{
		{name: "transcripts", usage: "Directory with *_transcript.json files", field: func(c *config.Config) any { return &c.Transcripts.TranscriptsDir }},
		{name: "media", usage: "Directory with the transcribed media", field: func(c *config.Config) any { return &c.Transcripts.MediaDir }},
		{name: "output", usage: "Directory for word clips", field: func(c *config.Config) any { return &c.Transcripts.OutputDir }},
		{name: "transcribe", usage: "Transcribe media without a transcript using whisper.cpp", field: func(c *config.Config) any { return &c.Transcripts.Transcribe }},
	}
	return jobCommand("clip-transcripts", "Cut one clip per transcribed word", usecase.JobClipTranscripts, defs, nil, nil)
}

func cropImagesCommand() *cobra.Command {
	defs := append(manifestFlags(
		func(c *config.Config) *string { return &c.CropImages.Manifest },
		func(c *config.Config) *string { return &c.CropImages.IDColumn },
	),
		flagDef{name: "input", usage: "Directory with <id>.png, .jpg or .bmp images", field: func(c *config.Config) any { return &c.CropImages.InputDir }},
		flagDef{name: "output", usage: "Directory for BMP strips", field: func(c *config.Config) any { return &c.CropImages.OutputDir }},
	)
	return jobCommand("crop-images", "Cut image strips at percent-of-width manifest ranges", usecase.JobCropImages, defs, nil, nil)
}
