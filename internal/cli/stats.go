// stats.go implements "sitless stats", a per-day table of completed sessions.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sitless/internal/core/progress"
	"sitless/internal/storage"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completed sessions per day",
	Long: `Print one row per day for the last N days with the number of completed
sitting+activity sessions and the time spent in each phase.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "Number of days to show, today included")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", statsDays)
	}
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

	days := dayRange(time.Now(), statsDays)
	summaries, err := store.DailySummaries(cmd.Context(), days[0], days[len(days)-1])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderStats(days, summaries, settings.DailyGoal))
	return nil
}

// dayRange returns count date keys ending at today, oldest first.
func dayRange(today time.Time, count int) []string {
	days := make([]string, 0, count)
	for offset := count - 1; offset >= 0; offset-- {
		days = append(days, progress.DateKey(today.AddDate(0, 0, -offset)))
	}
	return days
}
