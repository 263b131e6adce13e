package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bioprep",
		Short:         "Prepare bioacoustic recordings, data traces and images for analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default ./bioprep.toml or ~/.config/bioprep/config.toml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "Log format: console or json")

	root.AddCommand(
		spliceAudioCommand(),
		convertAudioCommand(),
		segmentDataCommand(),
		spectrogramCommand(),
		renameCommand(),
		clipTranscriptsCommand(),
		cropImagesCommand(),
		configCommand(),
	)
	return root
}
