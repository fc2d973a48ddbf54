package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hostpulse/internal/alerts"
	"hostpulse/internal/config"
	"hostpulse/internal/format"
	"hostpulse/internal/notifier"
	"hostpulse/internal/sampler"
)

// newSampler is overridable for testing
var newSampler = func(cfg *config.Config) interface {
	sampler.Source
	sampler.HostInfo
} {
	return sampler.New(sampler.Config{
		CPUWindow: cfg.Sampler.CPUWindow,
		DiskPath:  cfg.Sampler.DiskPath,
	})
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Take one sample and print it",
		Long: `Take a single sample and print it as one line. With --alerts, also print
the alert message for every metric above its threshold. With --notify, push
the status message through the configured notification sink.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	cmd.Flags().Bool("alerts", false, "Print alerts for metrics above threshold")
	cmd.Flags().Bool("notify", false, "Send the status message through the configured sink")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Monitor.TickTimeout)
	defer cancel()

	s := newSampler(cfg)
	snap, err := s.Sample(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, format.Plain(snap))

	withAlerts, _ := cmd.Flags().GetBool("alerts")
	if withAlerts {
		events := alerts.Evaluate(snap, cfg.Thresholds, alerts.CooldownState{}, 0, time.Now())
		for _, ev := range events {
			fmt.Fprintln(out, format.Alert(ev.Metric, ev.Value, ev.Threshold))
		}
	}

	notify, _ := cmd.Flags().GetBool("notify")
	if notify {
		n, err := notifier.New(cfg)
		if err != nil {
			return err
		}
		if notifier.IsNop(n) {
			return fmt.Errorf("no notification sink is enabled")
		}
		facts, _ := s.Facts(ctx)
		text := format.Status(format.StatusInput{Snapshot: snap, Host: facts})
		if !notifier.Deliver(ctx, n, notifier.KindStatus, text) {
			return fmt.Errorf("status notification was not delivered via %s", n.Name())
		}
		fmt.Fprintf(out, "status sent via %s\n", n.Name())
	}
	return nil
}
