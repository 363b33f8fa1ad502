package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/spsh/internal/config"
	"github.com/willibrandon/spsh/internal/lineedit"
	"github.com/willibrandon/spsh/internal/storage/sqlite"
)

// newHistoryCmd creates the history subcommand
func newHistoryCmd() *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear the stored console history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openHistoryStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			if clearHistory {
				if err := clearStore(store); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}

			lines, err := store.Load()
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			for i, line := range lines {
				fmt.Fprintf(out, "%5d  %s\n", i+1, line)
			}
			fmt.Fprintf(out, "%s (%s)\n", pluralize(len(lines), "entry", "entries"), describeStore(cfg, store))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "remove all stored history")
	return cmd
}

func clearStore(store lineedit.LineStore) error {
	if s, ok := store.(*sqlite.HistoryStore); ok {
		return s.Clear(context.Background())
	}
	return store.Save(nil)
}

// describeStore names the backend, with the last save time when the
// backend records one.
func describeStore(cfg *config.Config, store lineedit.LineStore) string {
	switch s := store.(type) {
	case *sqlite.HistoryStore:
		ctx := context.Background()
		desc := "sqlite"
		if rows, err := s.Count(ctx); err == nil {
			desc += ", " + pluralize(int(rows), "row", "rows")
		}
		saved, err := s.LastSaved(ctx)
		if err != nil || saved.IsZero() {
			return desc
		}
		return desc + ", saved " + humanize.Time(saved)
	case *lineedit.FileStore:
		return s.Path
	default:
		return cfg.Editor.HistoryBackend
	}
}
