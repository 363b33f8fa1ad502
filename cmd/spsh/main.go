package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/spsh/internal/config"
	"github.com/willibrandon/spsh/internal/lineedit"
	"github.com/willibrandon/spsh/internal/logger"
	"github.com/willibrandon/spsh/internal/storage/sqlite"
	"github.com/willibrandon/spsh/internal/terminal"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath  string
	debug       bool
	historySize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spsh",
		Short: "Interactive SharePoint console",
		Long: `spsh is an interactive console with Emacs-style line editing,
persistent history, reverse incremental search (C-r) and tab completion.

Type "help" at the prompt for the list of console commands.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/spsh/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&historySize, "history-size", 0, "number of history lines to keep (overrides editor.history_size)")

	rootCmd.AddCommand(
		newConfigCmd(),
		newHistoryCmd(),
		newKeysCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

// loadConfig loads the configuration and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	if historySize != 0 {
		cfg.Editor.HistorySize = historySize
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openHistoryStore returns the configured history backend and a function
// releasing it.
func openHistoryStore(cfg *config.Config) (lineedit.LineStore, func(), error) {
	noop := func() {}
	name := cfg.Editor.Name
	path := cfg.Editor.HistoryPath

	switch cfg.Editor.HistoryBackend {
	case config.BackendSQLite:
		if path == "" {
			p, err := sqlite.DefaultPath(name)
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open history database: %w", err)
		}
		logger.Debug("using sqlite history", "path", path, "name", name)
		return sqlite.NewHistoryStore(db, name), func() { db.Close() }, nil

	default:
		if path == "" {
			if name == "" {
				return &lineedit.MemoryStore{}, noop, nil
			}
			p, err := lineedit.DefaultHistoryPath(name)
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		logger.Debug("using file history", "path", path)
		return lineedit.NewFileStore(path), noop, nil
	}
}

// runConsole runs the interactive console until the user exits.
func runConsole() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.InitLogger(cfg.LogLevel(), cfg.Log.Path)
	defer logger.Close()
	if cfg.Debug {
		fmt.Fprintf(os.Stderr, "Debug mode: Logs written to %s\n", logger.LogPath)
	}
	logger.Debug("spsh starting", "version", version, "config", configPath)

	store, closeStore, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sh := newShell(cfg, os.Stdout)
	opts := []lineedit.Option{
		lineedit.WithStore(store),
		lineedit.WithCompleter(sh.complete),
		lineedit.WithTabAtStartCompletes(cfg.Editor.TabAtStartCompletes),
	}

	var con *terminal.Console
	if terminal.IsTerminal(os.Stdin) {
		if con, err = terminal.Stdio(); err != nil {
			return err
		}
		opts = append(opts, lineedit.WithTerminal(con))
		sh.clearScreen = con.ClearScreen
	}

	editor, err := lineedit.New(cfg.Editor.Name, cfg.Editor.HistorySize, opts...)
	if err != nil {
		return err
	}
	sh.editor = editor

	if con == nil {
		logger.Debug("stdin is not a terminal, reading plain lines")
		return sh.runLines(os.Stdin)
	}

	fmt.Fprintf(sh.out, "spsh %s. Type \"help\" for commands.\n", version)
	return sh.run()
}
