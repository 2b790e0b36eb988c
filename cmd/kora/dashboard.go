package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/browser"
	"github.com/koraenergy/kora-control/internal/cache"
	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/publisher"
	"github.com/koraenergy/kora-control/internal/transcript"
	"github.com/koraenergy/kora-control/internal/ui"
)

const sessionPollInterval = 2 * time.Second

func runDashboard(cmd *cobra.Command, args []string) error {
	bridge := ui.NewBridge()
	defer bridge.Close()

	e, err := setup(true, func(cfg config.Config, log *zap.Logger) api.Navigator {
		return dashboardNavigator(cfg, log, bridge)
	})
	if err != nil {
		return err
	}
	defer e.Close()
	if bn, ok := e.nav.(*browser.Navigator); ok {
		defer bn.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if e.credPath != "" {
		stop, err := e.sess.Watch(e.credPath, sessionPollInterval)
		if err != nil {
			e.log.Warn("not watching credentials file", zap.String("path", e.credPath), zap.Error(err))
		} else {
			defer stop()
		}
	}
	unsubscribe := e.sess.Subscribe(bridge.SessionChanged)
	defer unsubscribe()

	opts := e.pageOptions()
	overview := pages.NewOverview(e.client, opts...)
	if r := domain.TimeRange(e.cfg.General.TimeRange); r.Valid() {
		_ = overview.SetUsageRange(r)
	}
	overview.OnUpdate(bridge.OverviewUpdated)
	defer attachHistory(ctx, e, overview)()
	defer attachPublisher(e, overview)()

	billing := pages.NewBilling(e.client, e.nav, opts...)
	complaints := pages.NewComplaints(e.client, opts...)
	chat := pages.NewChat(e.client, opts...)
	defer attachTranscript(e, chat)()

	app := ui.NewApp(ui.Deps{
		Config:     e.cfg,
		ConfigPath: getConfigPath(),
		Auth:       e.client,
		Session:    e.sess,
		Overview:   overview,
		Billing:    billing,
		Complaints: complaints,
		Chat:       chat,
		Bridge:     bridge,
		Clock:      clockwork.NewRealClock(),
		Log:        e.log,
		Context:    ctx,
	})
	e.log.Info("dashboard started", zap.String("api", e.client.BaseURL()), zap.Bool("logged_in", e.sess.LoggedIn()))

	_, runErr := tea.NewProgram(app, tea.WithAltScreen()).Run()

	// Unblock background senders before waiting for them.
	bridge.Close()
	cancel()
	overview.Close()
	billing.Close()
	complaints.Close()
	chat.Close()

	if runErr != nil {
		return fmt.Errorf("running dashboard: %w", runErr)
	}
	return nil
}

// dashboardNavigator routes navigation into the TUI. Without a
// controllable browser the checkout link can only go to the log, since
// the terminal belongs to the dashboard.
func dashboardNavigator(cfg config.Config, log *zap.Logger, bridge *ui.Bridge) api.Navigator {
	if cfg.Payment.OpenBrowser {
		return &browser.Navigator{
			ReturnURL: cfg.Payment.ReturnURL,
			OnReturn:  bridge.PaymentReturned,
			OnLogin:   bridge.LoginRequired,
			Log:       log.Named("browser"),
		}
	}
	return browser.Printer{
		W:       zap.NewStdLog(log.Named("checkout")).Writer(),
		OnLogin: bridge.LoginRequired,
	}
}

// attachHistory seeds the overview from the snapshot cache and records
// every live snapshot. It returns the cleanup function.
func attachHistory(ctx context.Context, e *env, overview *pages.Overview) func() {
	if !e.cfg.Cache.Enabled {
		return func() {}
	}
	store, err := cache.Open(e.cfg.Cache.Path, e.cfg.Cache.Keep)
	if err != nil {
		e.log.Warn("snapshot history unavailable", zap.String("path", e.cfg.Cache.Path), zap.Error(err))
		return func() {}
	}

	snap, ok, err := store.Latest(ctx)
	switch {
	case err != nil:
		e.log.Warn("read cached snapshot", zap.Error(err))
	case ok:
		overview.Seed(snap)
	}

	overview.OnSnapshot(func(s pages.Snapshot) {
		if err := store.Append(context.Background(), s); err != nil {
			e.log.Warn("append snapshot", zap.Error(err))
		}
	})
	return func() {
		if err := store.Close(); err != nil {
			e.log.Warn("close snapshot history", zap.Error(err))
		}
	}
}

// attachPublisher mirrors live snapshots to MQTT when enabled.
func attachPublisher(e *env, overview *pages.Overview) func() {
	if !e.cfg.MQTT.Enabled {
		return func() {}
	}
	pub, err := publisher.New(e.cfg.MQTT, e.log.Named("mqtt"))
	if err != nil {
		e.log.Warn("snapshot publishing disabled", zap.Error(err))
		return func() {}
	}
	overview.OnSnapshot(pub.Observe)
	return pub.Close
}

// attachTranscript appends every chat message to the local transcript.
func attachTranscript(e *env, chat *pages.Chat) func() {
	tlog, err := transcript.Open(transcript.DefaultPath())
	if err != nil {
		e.log.Warn("chat transcript disabled", zap.Error(err))
		return func() {}
	}
	chat.OnAppend(func(m domain.ChatMessage) {
		if err := tlog.Append(m); err != nil {
			e.log.Warn("append transcript", zap.Error(err))
		}
	})
	return func() {
		if err := tlog.Close(); err != nil {
			e.log.Warn("close transcript", zap.Error(err))
		}
	}
}
