// today.go implements "sitless today", the daily counter and its sessions.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"sitless/internal/core/progress"
	"sitless/internal/storage"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's progress toward the daily goal",
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := storage.LoadSettings(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	gateway := progress.NewGateway(store, time.Now, slog.New(slog.NewTextHandler(io.Discard, nil)))
	today := gateway.LoadProgress(ctx)

	sessions, err := store.SessionsOn(ctx, today.Date)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderToday(today, settings.DailyGoal, sessions))
	return nil
}
