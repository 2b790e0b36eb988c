package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/browser"
	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

var (
	billsUnpaid bool
	payWait     time.Duration
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List your bills",
	Args:  cobra.NoArgs,
	RunE:  runBills,
}

var payCmd = &cobra.Command{
	Use:   "pay <bill-id>",
	Short: "Pay a bill through the payment gateway",
	Long: `Starts a payment for the bill and opens the gateway's checkout page.

With payment.open_browser enabled the checkout opens in a Chrome window and
kora waits until you return from the gateway, then reloads your bills.
Otherwise the checkout link is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

func init() {
	billsCmd.Flags().BoolVar(&billsUnpaid, "unpaid", false, "only show unpaid bills")
	payCmd.Flags().DurationVar(&payWait, "wait", 30*time.Minute, "how long to wait for the return from the gateway")
	rootCmd.AddCommand(billsCmd, payCmd)
}

func runBills(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	billing := pages.NewBilling(e.client, e.nav, e.pageOptions()...)
	defer billing.Close()
	if err := billing.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading bills: %w", err)
	}
	printBills(billing.State(), billsUnpaid)
	return nil
}

func printBills(st pages.BillingState, unpaidOnly bool) {
	if len(st.Bills) == 0 {
		fmt.Println("No bills found")
		return
	}

	fmt.Println("------------------------------------------------------")
	fmt.Printf("%-6s  %-12s  %10s  %14s  %s\n", "ID", "Date", "kWh", "Amount (ETB)", "Status")
	fmt.Println("------------------------------------------------------")
	for _, b := range st.Bills {
		if unpaidOnly && b.IsPaid {
			continue
		}
		fmt.Printf("%-6d  %-12s  %10s  %14s  %s\n",
			b.ID, billDate(b), components.FormatKWh(b.UsageKWh), billAmount(b), billStatus(b))
	}
	fmt.Println("------------------------------------------------------")

	s := st.Summary
	fmt.Printf("%s bills, %s paid, %s unpaid (%s ETB outstanding), %s kWh billed\n",
		components.FormatNumber(s.Total),
		components.FormatNumber(s.Paid),
		components.FormatNumber(s.Unpaid),
		components.FormatETB(s.UnpaidAmount),
		components.FormatKWh(s.TotalUsage),
	)
}

func billDate(b domain.Bill) string {
	t, err := b.Date()
	return components.FormatDate(t, err, b.BillingDate)
}

func billAmount(b domain.Bill) string {
	v, err := b.AmountValue()
	if err != nil {
		return b.Amount
	}
	return components.FormatETB(v)
}

func billStatus(b domain.Bill) string {
	if b.IsPaid {
		return "paid"
	}
	return "unpaid"
}

func runPay(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid bill id %q", args[0])
	}

	returned := make(chan struct{})
	var once sync.Once
	e, err := setup(false, func(cfg config.Config, log *zap.Logger) api.Navigator {
		if !cfg.Payment.OpenBrowser {
			return cliNavigator(cfg, log)
		}
		return &browser.Navigator{
			ReturnURL: cfg.Payment.ReturnURL,
			OnReturn:  func() { once.Do(func() { close(returned) }) },
			Timeout:   payWait,
			Log:       log.Named("browser"),
		}
	})
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	billing := pages.NewBilling(e.client, e.nav, e.pageOptions()...)
	defer billing.Close()
	if err := billing.Load(ctx); err != nil {
		return fmt.Errorf("loading bills: %w", err)
	}
	if err := billing.Pay(ctx, id); err != nil {
		return err
	}

	bn, ok := e.nav.(*browser.Navigator)
	if !ok {
		fmt.Println("Run `kora bills` after paying to see the updated status.")
		return nil
	}
	defer bn.Close()

	fmt.Println("Checkout opened in the browser. Waiting for you to finish...")
	select {
	case <-returned:
	case <-ctx.Done():
		fmt.Println("Stopped waiting.")
	}

	// The gateway owns the outcome; reload to learn it.
	rctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
	defer cancel()
	if err := billing.Reconcile(rctx); err != nil {
		return fmt.Errorf("reloading bills: %w", err)
	}
	for _, b := range billing.State().Bills {
		if b.ID == id {
			fmt.Printf("Bill #%d is %s\n", id, billStatus(b))
			return nil
		}
	}
	fmt.Printf("Bill #%d no longer listed\n", id)
	return nil
}
