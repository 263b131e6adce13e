package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forPelevin/bioprep/internal/config"
	"github.com/forPelevin/bioprep/internal/logging"
	"github.com/forPelevin/bioprep/internal/pipeline"
)

// loadConfig reads the config file named by --config (or the default
// locations) and applies persistent and command flags on top of it.
func loadConfig(cmd *cobra.Command, defs []flagDef) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if err := applyFlags(cmd, defs, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Resolve(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, job string, defs []flagDef, adjust func(*config.Config)) error {
	cfg, err := loadConfig(cmd, defs)
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
		if err := cfg.Resolve(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pc := pipeline.Config{
		Job:      job,
		Settings: cfg,
		Logger:   logger,
		Summary:  cmd.OutOrStdout(),
	}
	if isTerminal(cmd.ErrOrStderr()) {
		pc.Progress = cmd.ErrOrStderr()
	}
	_, err = pipeline.Run(ctx, pc)
	return err
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
