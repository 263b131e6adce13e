package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/bioprep/internal/config"
)

// flagDef binds a command-line flag to one config field. The flag default is
// the field's built-in default; a flag only overrides the config when it was
// set explicitly.
type flagDef struct {
	name  string
	usage string
	field func(*config.Config) any
}

func addFlags(cmd *cobra.Command, defs []flagDef) {
	def := config.Default()
	fs := cmd.Flags()
	for _, d := range defs {
		switch p := d.field(&def).(type) {
		case *string:
			fs.String(d.name, *p, d.usage)
		case *float64:
			fs.Float64(d.name, *p, d.usage)
		case *int:
			fs.Int(d.name, *p, d.usage)
		case *bool:
			fs.Bool(d.name, *p, d.usage)
		default:
			panic(fmt.Sprintf("flag %s: unsupported field type %T", d.name, p))
		}
	}
}

func applyFlags(cmd *cobra.Command, defs []flagDef, cfg *config.Config) error {
	fs := cmd.Flags()
	for _, d := range defs {
		if !fs.Changed(d.name) {
			continue
		}
		var err error
		switch p := d.field(cfg).(type) {
		case *string:
			*p, err = fs.GetString(d.name)
		case *float64:
			*p, err = fs.GetFloat64(d.name)
		case *int:
			*p, err = fs.GetInt(d.name)
		case *bool:
			*p, err = fs.GetBool(d.name)
		}
		if err != nil {
			return fmt.Errorf("flag --%s: %w", d.name, err)
		}
	}
	return nil
}

func manifestFlags(path func(*config.Config) *string, idColumn func(*config.Config) *string) []flagDef {
	return []flagDef{
		{name: "manifest", usage: "Timestamp manifest CSV", field: func(c *config.Config) any { return path(c) }},
		{name: "id-column", usage: "Manifest identifier column", field: func(c *config.Config) any { return idColumn(c) }},
	}
}

func spectrogramFlags() []flagDef {
	return []flagDef{
		{name: "frame-size", usage: "STFT frame size", field: func(c *config.Config) any { return &c.Spectrogram.FrameSize }},
		{name: "hop-size", usage: "STFT hop size", field: func(c *config.Config) any { return &c.Spectrogram.HopSize }},
		{name: "sample-rate", usage: "Sample rate of WAV files written from data segments", field: func(c *config.Config) any { return &c.Spectrogram.SampleRate }},
		{name: "top-db", usage: "Dynamic range below the peak, in dB", field: func(c *config.Config) any { return &c.Spectrogram.TopDB }},
		{name: "width", usage: "Image width in pixels", field: func(c *config.Config) any { return &c.Spectrogram.Width }},
		{name: "height", usage: "Image height in pixels", field: func(c *config.Config) any { return &c.Spectrogram.Height }},
		{name: "colormap", usage: "Colormap: inferno or coolwarm", field: func(c *config.Config) any { return &c.Spectrogram.Colormap }},
		{name: "format", usage: "Image format: png or jpg", field: func(c *config.Config) any { return &c.Spectrogram.Format }},
		{name: "layout", usage: "Output layout: keyword or flat", field: func(c *config.Config) any { return &c.Spectrogram.Layout }},
	}
}
