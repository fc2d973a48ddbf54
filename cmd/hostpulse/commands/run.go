package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hostpulse/internal/logger"
	"hostpulse/internal/monitor"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the monitor until interrupted",
		Long: `Run the sampling-and-alerting loop. SIGINT and SIGTERM stop it gracefully.
The process exits with status 1 on configuration errors or a fatal runtime error.`,
		Args: cobra.NoArgs,
		RunE: runMonitor,
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.Logger = logger.WithRunID(uuid.New().String())
	log := logger.WithComponent("main")

	m, err := monitor.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create monitor")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil {
		log.Error().Err(err).Msg("monitor exited with error")
		return err
	}

	log.Info().Msg("exited")
	return nil
}
