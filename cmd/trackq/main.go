// Command trackq inspects and manages a persisted tracker event queue.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/trackq/pkg/trackq/config"
	"github.com/randalmurphal/trackq/pkg/trackq/identity"
	"github.com/randalmurphal/trackq/pkg/trackq/queue"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

var (
	// Global flags
	configPath string
	driver     string
	dbPath     string
	redisAddr  string
	queueKey   string
	verbose    bool

	// Initialized by openBackends for every subcommand
	cfg      config.Config
	logger   *slog.Logger
	kv       store.Store
	events   *queue.DurableQueue
	defaults *identity.Defaults
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trackq",
		Short: "Inspect and manage an offline analytics event queue",
		Long: `trackq opens the store a tracker persists its event queue and visitor
state in, and lets you count, peek at, clear, or append to the queue.

Store settings come from --config (YAML, JSON or TOML) and can be
overridden with flags.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  openBackends,
		PersistentPostRunE: closeBackends,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Store driver: memory, sqlite or redis (default sqlite)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default ./trackq.db)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the redis driver")
	rootCmd.PersistentFlags().StringVar(&queueKey, "key", "", "Store key holding the queue (default Events)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store diagnostics to stderr")

	rootCmd.AddCommand(newCountCommand())
	rootCmd.AddCommand(newPeekCommand())
	rootCmd.AddCommand(newClearCommand())
	rootCmd.AddCommand(newVisitorCommand())
	rootCmd.AddCommand(newTrackCommand())

	return rootCmd
}

// openBackends loads configuration and opens the configured store.
func openBackends(cmd *cobra.Command, args []string) error {
	// Skip for help commands
	if cmd.Name() == "help" || cmd.Parent() == nil {
		return nil
	}

	if kv != nil {
		_ = kv.Close()
		kv = nil
	}

	cfg = config.New(nil)
	if configPath != "" {
		loaded, err := config.FromFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	logger = newLogger(cmd, cfg.Sub("log"))

	storeCfg := cfg.Sub("store")
	s, err := openStore(storeCfg)
	if err != nil {
		return err
	}
	kv = s

	key := queueKey
	if key == "" {
		key = storeCfg.String("key", queue.DefaultKey)
	}
	events = queue.NewDurableQueue(kv, queue.WithKey(key), queue.WithLogger(logger))
	defaults = identity.NewDefaults(kv)
	return nil
}

func closeBackends(cmd *cobra.Command, args []string) error {
	if kv == nil {
		return nil
	}
	err := kv.Close()
	kv = nil
	return err
}

// openStore picks the store driver from flags, falling back to config.
func openStore(storeCfg config.Config) (store.Store, error) {
	name := driver
	if name == "" {
		name = storeCfg.String("driver", "sqlite")
	}

	switch strings.ToLower(name) {
	case "memory":
		return store.NewMemoryStore(), nil

	case "sqlite":
		path := dbPath
		if path == "" {
			path = storeCfg.String("path", "./trackq.db")
		}
		s, err := store.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil

	case "redis":
		redisCfg := storeCfg.Sub("redis")
		addr := redisAddr
		if addr == "" {
			addr = redisCfg.String("address", "localhost:6379")
		}
		rc := store.DefaultRedisConfig(addr)
		rc.Password = redisCfg.String("password", "")
		rc.Database = redisCfg.Int("database", 0)
		rc.Prefix = redisCfg.String("prefix", rc.Prefix)
		rc.TTL = redisCfg.Duration("ttl", 0)
		rc.Timeout = redisCfg.Duration("timeout", rc.Timeout)

		s, err := store.NewRedisStore(rc)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q (want memory, sqlite or redis)", name)
	}
}

// newLogger returns a stderr text logger, or nil when logging is off.
func newLogger(cmd *cobra.Command, logCfg config.Config) *slog.Logger {
	level := logCfg.String("level", "")
	if verbose && level == "" {
		level = "debug"
	}
	if level == "" {
		return nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}
