package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

var (
	statsUsageRange string
	statsCostRange  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard overview once",
	Long:  `Fetches the overview (stats, usage, cost and recent activity) and prints it.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsUsageRange, "usage-range", "", "usage window: week, month or year (default from config)")
	statsCmd.Flags().StringVar(&statsCostRange, "cost-range", string(domain.RangeMonth), "cost window: week, month or year")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	overview := pages.NewOverview(e.client, e.pageOptions()...)
	defer overview.Close()

	usage := statsUsageRange
	if usage == "" {
		usage = e.cfg.General.TimeRange
	}
	if err := overview.SetUsageRange(domain.TimeRange(usage)); err != nil {
		return err
	}
	if err := overview.SetCostRange(domain.TimeRange(statsCostRange)); err != nil {
		return err
	}

	snap, err := overview.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching overview: %w", err)
	}
	printSnapshot(snap)
	return nil
}

func printSnapshot(s pages.Snapshot) {
	fmt.Printf("%-16s %s kWh\n", "Current usage", components.FormatKWh(s.Stats.CurrentUsageKWh))
	fmt.Printf("%-16s %s ETB\n", "Pending bill", components.FormatETB(s.Stats.PendingBillETB))
	fmt.Printf("%-16s %d\n", "Active tickets", s.Stats.ActiveTickets)

	fmt.Printf("\nUsage (%s): total %s kWh, trend %s\n",
		s.Usage.TimeRange, components.FormatKWh(s.TotalUsage()), components.FormatTrend(s.UsageTrend()))
	fmt.Printf("Cost (%s): total %s ETB\n", s.Cost.TimeRange, components.FormatETB(s.TotalCost()))
	fmt.Println("----------------------------------------")
	fmt.Printf("%-10s  %12s  %14s\n", "Period", "kWh", "ETB")
	fmt.Println("----------------------------------------")
	for _, p := range s.Pairs() {
		fmt.Printf("%-10s  %12s  %14s\n", p.Name, components.FormatKWh(p.Usage), components.FormatETB(p.Cost))
	}
	if len(s.Usage.Data) < len(s.Cost.Data) {
		for _, c := range s.Cost.Data[len(s.Usage.Data):] {
			fmt.Printf("%-10s  %12s  %14s\n", c.Name, "-", components.FormatETB(c.Cost))
		}
	}

	if len(s.Activity) > 0 {
		fmt.Println("\nRecent activity")
		fmt.Println("----------------------------------------")
		for _, a := range s.Activity {
			t, err := a.Time()
			fmt.Printf("%-12s  %-9s  %-10s  %s\n",
				components.FormatDate(t, err, a.Date), a.Type, a.Status, a.Description)
		}
	}

	if !s.FetchedAt.IsZero() {
		fmt.Printf("\nFetched %s\n", humanize.Time(s.FetchedAt))
	}
}

// snapshotLine is the one-line form used by watch.
func snapshotLine(s pages.Snapshot, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  usage %s kWh  pending %s ETB  tickets %d",
		now.Format("15:04:05"),
		components.FormatKWh(s.Stats.CurrentUsageKWh),
		components.FormatETB(s.Stats.PendingBillETB),
		s.Stats.ActiveTickets,
	)
	if trend := s.UsageTrend(); trend != 0 {
		fmt.Fprintf(&b, "  trend %s", components.FormatTrend(trend))
	}
	return b.String()
}
