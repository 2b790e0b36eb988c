package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/session"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the overview and print a line per refresh",
	Long: `Polls the dashboard overview until interrupted, printing one line per
refresh. Snapshots are recorded in the local history and, when enabled,
published to MQTT, exactly as the dashboard does.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "refresh period (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	period := e.cfg.PollInterval()
	if watchInterval > 0 {
		period = watchInterval
	}
	opts := append(e.pageOptions(), pages.WithPeriod(period))
	overview := pages.NewOverview(e.client, opts...)
	if r := domain.TimeRange(e.cfg.General.TimeRange); r.Valid() {
		_ = overview.SetUsageRange(r)
	}

	// A session lost mid-watch ends the watch.
	expired := make(chan struct{}, 1)
	unsubscribe := e.sess.Subscribe(func(ev session.Event) {
		if ev.Kind == session.EventLogout {
			select {
			case expired <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	overview.OnUpdate(func(st pages.OverviewState) {
		switch {
		case st.Err != nil:
			fmt.Printf("%s  refresh failed: %v\n", time.Now().Format("15:04:05"), st.Err)
		case st.Snapshot != nil && !st.Stale:
			fmt.Println(snapshotLine(*st.Snapshot, time.Now()))
		}
	})
	defer attachHistory(ctx, e, overview)()
	defer attachPublisher(e, overview)()

	e.log.Info("watch started", zap.Duration("period", period))
	overview.Start(ctx)
	defer overview.Close()

	select {
	case <-ctx.Done():
		return nil
	case <-expired:
		return fmt.Errorf("session expired (run `kora login`)")
	}
}
