package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

var (
	complaintsStatus string

	newSubject     string
	newDescription string
	newPriority    string
)

var complaintsCmd = &cobra.Command{
	Use:     "complaints",
	Aliases: []string{"complaint", "tickets"},
	Short:   "List, show and file complaints",
}

var complaintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your complaints",
	Args:  cobra.NoArgs,
	RunE:  runComplaintsList,
}

var complaintsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one complaint",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplaintsShow,
}

var complaintsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "File a new complaint",
	Long:  `Files a complaint. Subject and description are prompted for when not given.`,
	Args:  cobra.NoArgs,
	RunE:  runComplaintsNew,
}

func init() {
	complaintsListCmd.Flags().StringVar(&complaintsStatus, "status", "all", "filter: all, pending, investigating or resolved")

	complaintsNewCmd.Flags().StringVarP(&newSubject, "subject", "s", "", "short summary")
	complaintsNewCmd.Flags().StringVarP(&newDescription, "description", "d", "", "what happened")
	complaintsNewCmd.Flags().StringVarP(&newPriority, "priority", "p", string(domain.PriorityMedium), "low, medium or high")

	complaintsCmd.AddCommand(complaintsListCmd, complaintsShowCmd, complaintsNewCmd)
	rootCmd.AddCommand(complaintsCmd)
}

func runComplaintsList(cmd *cobra.Command, args []string) error {
	filter, err := domain.ParseStatusFilter(complaintsStatus)
	if err != nil {
		return err
	}

	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	page := pages.NewComplaints(e.client, e.pageOptions()...)
	defer page.Close()
	if err := page.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading complaints: %w", err)
	}
	page.SetFilter(filter)
	printComplaints(page.State())
	return nil
}

func printComplaints(st pages.ComplaintsState) {
	c := st.Counts
	fmt.Printf("%d total, %d pending, %d investigating, %d resolved\n",
		c.Total, c.Pending, c.Investigating, c.Resolved)
	if len(st.Visible) == 0 {
		fmt.Println("No complaints found")
		return
	}

	fmt.Println("----------------------------------------------------------------")
	fmt.Printf("%-6s  %-12s  %-13s  %-8s  %s\n", "ID", "Created", "Status", "Priority", "Subject")
	fmt.Println("----------------------------------------------------------------")
	for _, cp := range st.Visible {
		fmt.Printf("%-6d  %-12s  %-13s  %-8s  %s\n",
			cp.ID, createdDate(cp), cp.Status, cp.Priority, cp.Subject)
	}
}

func createdDate(c domain.Complaint) string {
	t, err := c.Created()
	return components.FormatDate(t, err, c.CreatedAt)
}

func runComplaintsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid complaint id %q", args[0])
	}

	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	c, err := e.client.Complaint(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("loading complaint %d: %w", id, err)
	}
	fmt.Printf("#%d %s\n", c.ID, c.Subject)
	fmt.Printf("%-9s %s\n", "Status", c.Status)
	fmt.Printf("%-9s %s\n", "Priority", c.Priority)
	updated, uerr := c.Updated()
	fmt.Printf("%-9s %s\n", "Created", createdDate(c))
	fmt.Printf("%-9s %s\n", "Updated", components.FormatDate(updated, uerr, c.UpdatedAt))
	fmt.Println()
	fmt.Println(c.Description)
	return nil
}

func runComplaintsNew(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	form := pages.Form{Priority: domain.Priority(strings.ToLower(newPriority))}
	if form.Subject, err = valueOrPrompt(newSubject, "Subject"); err != nil {
		return err
	}
	if form.Description, err = valueOrPrompt(newDescription, "Description"); err != nil {
		return err
	}

	page := pages.NewComplaints(e.client, e.pageOptions()...)
	defer page.Close()
	page.SetForm(form)
	if err := page.Submit(cmd.Context()); err != nil {
		if !pages.Created(err) {
			return err
		}
		// Filed; only the listing below is affected.
		fmt.Println("Complaint submitted successfully!")
		return err
	}

	fmt.Println("Complaint submitted successfully!")
	printComplaints(page.State())
	return nil
}
