package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/browser"
	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/logging"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/session"
)

var (
	cfgFile string
	apiURL  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kora",
	Short: "Kora Control: your electricity account in the terminal",
	Long: `Kora Control shows your energy usage, bills and support tickets and
lets you pay bills, file complaints and ask the assistant questions.

Run without a subcommand to open the dashboard.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/kora/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and KORA_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr at debug level")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// loadConfig loads the config file and applies environment and flag
// overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadWithEnv(getConfigPath())
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, nil
}

// env is what every command needs: config, logger, session and client.
type env struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	sess     *session.Manager
	client   *api.Client
	nav      api.Navigator
	// credPath is the watched credentials file, empty for the keychain.
	credPath string
}

// navigatorFunc builds the navigator once config and logger exist.
type navigatorFunc func(cfg config.Config, log *zap.Logger) api.Navigator

// setup builds the shared environment. The TUI keeps the file logger;
// plain commands log to stderr only with --verbose.
func setup(tui bool, newNav navigatorFunc) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lc := logging.Config{Level: cfg.Log.Level, Dir: cfg.Log.Dir, Dev: cfg.Log.Dev}
	if verbose {
		lc.Level = "debug"
		if !tui {
			lc.Dir = ""
		}
	}
	log, closeLog, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, credPath := openStore(cfg, log)
	sess, err := session.NewManager(store, log)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("loading session: %w", err)
	}

	nav := newNav(cfg, log)
	client, err := api.New(cfg.API.BaseURL, sess,
		api.WithNavigator(nav),
		api.WithLogger(log),
		api.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	return &env{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		sess:     sess,
		client:   client,
		nav:      nav,
		credPath: credPath,
	}, nil
}

// openStore picks the credential store. The OS keychain is used when
// configured and available; otherwise the credentials file, whose path
// is returned for watching.
func openStore(cfg config.Config, log *zap.Logger) (session.Store, string) {
	if cfg.Session.Keychain {
		ks, err := session.NewKeychainStore()
		if err == nil {
			return ks, ""
		}
		log.Warn("keychain unavailable, using credentials file", zap.Error(err))
	}
	path := cfg.Session.Path
	if path == "" {
		path = session.DefaultPath()
	}
	return session.NewFileStore(path), path
}

func (e *env) Close() {
	_ = e.log.Sync()
	e.closeLog()
}

func (e *env) pageOptions() []pages.Option {
	return []pages.Option{
		pages.WithLogger(e.log),
		pages.WithPeriod(e.cfg.PollInterval()),
	}
}

// requireLogin fails fast for commands that need a session.
func (e *env) requireLogin() error {
	if !e.sess.LoggedIn() {
		return fmt.Errorf("not signed in (run `kora login`)")
	}
	if c, ok := e.sess.Claims(); ok && c.Expired(time.Now()) {
		return fmt.Errorf("session expired at %s (run `kora login`)", c.ExpiresAt.Format(time.RFC822))
	}
	return nil
}

// cliNavigator prints checkout links and reports session expiry on stderr.
func cliNavigator(config.Config, *zap.Logger) api.Navigator {
	return browser.Printer{
		W: os.Stdout,
		OnLogin: func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run `kora login` to sign in again.")
		},
	}
}
