package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	historyWindow    int
	historyCheck     bool
	historyPurgeDays int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent validation runs and accuracy",
	Long: `Show the most recent validation runs recorded by validate and
batch, with the accuracy over the window.

With --check, exits non-zero when accuracy over the window falls below
history.accuracy_target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store, err := openHistory(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyPurgeDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -historyPurgeDays)
			deleted, err := store.Purge(cutoff)
			if err != nil {
				return err
			}
			printStatus("✓", fmt.Sprintf("purged %d runs older than %d days", deleted, historyPurgeDays), color.FgGreen)
		}

		runs, err := store.RecentRuns(historyWindow)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No validation runs recorded.")
			return nil
		}

		for _, run := range runs {
			symbol, attr := "✓", color.FgGreen
			if !run.OverallValid {
				symbol, attr = "✗", color.FgRed
			}
			printStatus(symbol, fmt.Sprintf("%s  %-12s segments=%d errors=%d  %s",
				run.CreatedAt.Format("2006-01-02 15:04:05"), run.ResponseType,
				run.SegmentCount, run.ErrorCount, run.Duration.Round(time.Millisecond)), attr)
		}

		acc, n, err := store.Accuracy(historyWindow)
		if err != nil {
			return err
		}
		fmt.Printf("\naccuracy over last %d runs: %.1f%% (target %.1f%%)\n",
			n, acc*100, cfg.History.AccuracyTarget*100)

		if historyCheck && acc < cfg.History.AccuracyTarget {
			printStatus("✗", "accuracy below target", color.FgRed)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyWindow, "window", 20, "How many recent runs to show")
	historyCmd.Flags().BoolVar(&historyCheck, "check", false, "Exit non-zero when accuracy is below target")
	historyCmd.Flags().IntVar(&historyPurgeDays, "purge", 0, "Delete runs older than this many days first")
	rootCmd.AddCommand(historyCmd)
}
