// Package cmd implements the shopdesk CLI, the terminal front end of
// the store's admin console.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/akulov/shopdesk/api"
	"github.com/akulov/shopdesk/orders"
	"github.com/akulov/shopdesk/session"
	bboltstore "github.com/akulov/shopdesk/storage/bbolt"
)

type config struct {
	APIURL  string `env:"SHOPDESK_API_URL" envDefault:"http://localhost:3000/api"`
	DataDir string `env:"SHOPDESK_DATA_DIR"`
}

var (
	verbose bool

	store      *bboltstore.Store
	manager    *session.Manager
	controller *orders.Controller
)

var rootCmd = &cobra.Command{
	Use:   "shopdesk",
	Short: "Shopdesk is the store's admin console",
	Long: `Admin console for the store backend: manage the session and
drive order status transitions and their customer notifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setup() error {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".shopdesk")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err = bboltstore.NewStoreFromFile(filepath.Join(cfg.DataDir, "session.db"), nil)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	manager = session.NewManager(cfg.APIURL, store, session.WithLogger(log))
	controller = orders.NewController(manager.Client(), orders.WithLogger(log))
	return nil
}

// describeError maps the error taxonomy onto operator-facing wording.
func describeError(err error) string {
	var ve *orders.ValidationError
	if errors.As(err, &ve) {
		return "invalid input: " + ve.Reason
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "your session is no longer valid; please log in again"
	}
	if api.IsTransport(err) {
		return "cannot reach the backend; check your connection and try again"
	}
	var be *api.BackendError
	if errors.As(err, &be) {
		if be.Message != "" {
			return "backend rejected the request: " + be.Message
		}
		return be.Error()
	}
	return err.Error()
}
