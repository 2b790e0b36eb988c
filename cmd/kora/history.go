package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/koraenergy/kora-control/internal/cache"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded overview snapshots",
	Long:  `Lists the overview snapshots recorded by the dashboard and watch, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of snapshots to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Cache.Enabled {
		return fmt.Errorf("snapshot history is disabled (cache.enabled = false)")
	}

	store, err := cache.Open(cfg.Cache.Path, cfg.Cache.Keep)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	records, err := store.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No snapshots recorded yet")
		return nil
	}
	total, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("%-20s  %-16s  %12s  %14s  %7s\n", "Fetched", "", "kWh", "Pending ETB", "Tickets")
	fmt.Println("------------------------------------------------------------------")
	for _, r := range records {
		fmt.Printf("%-20s  %-16s  %12s  %14s  %7d\n",
			r.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(r.FetchedAt),
			components.FormatKWh(r.Stats.CurrentUsageKWh),
			components.FormatETB(r.Stats.PendingBillETB),
			r.Stats.ActiveTickets,
		)
	}
	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("Showing %d of %s snapshots in %s\n", len(records), humanize.Comma(int64(total)), cfg.Cache.Path)
	return nil
}
