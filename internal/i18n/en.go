package i18n

var en = map[string]string{
	// App chrome
	"initializing":       "Initializing...",
	"terminal_too_small": "Terminal too small (minimum 80x24)",
	"current_size":       "Current: %dx%d",
	"tab_overview":       "Overview",
	"tab_billing":        "Billing",
	"tab_complaints":     "Complaints",
	"tab_chat":           "AI Assistant",
	"signed_in_as":       "signed in as %s",
	"status_help":        "help",
	"status_settings":    "settings",
	"status_refresh":     "reload",
	"status_logout":      "sign out",
	"status_quit":        "quit",
	"key_next_page":      "next page",
	"key_prev_page":      "previous page",
	"key_close":          "close",
	"error_banner":       "Error: %s",
	"session_expired":    "Your session has expired. Please sign in again.",
	"signed_out":         "Signed out",

	// Login
	"login_title":         "Sign in to Kora",
	"login_username":      "Username",
	"login_password":      "Password",
	"login_help":          "tab next field · enter sign in · ctrl+c quit",
	"login_in_progress":   "Signing in...",
	"login_register_hint": "No account yet? Run: kora register",
	"login_failed":        "Login failed: %s",
	"login_missing":       "Enter your username and password",
	"login_invalid":       "Invalid username or password",

	// Overview
	"overview_current_usage":   "Current Usage",
	"overview_pending_bill":    "Pending Bill",
	"overview_active_tickets":  "Active Tickets",
	"overview_usage_trend":     "Usage Trend",
	"overview_usage_chart":     "Energy Usage · %s",
	"overview_cost_chart":      "Cost · %s",
	"overview_total_usage":     "Total %s kWh",
	"overview_total_cost":      "Total %s ETB",
	"overview_recent_activity": "Recent Activity",
	"overview_no_activity":     "No recent activity",
	"overview_no_data":         "No data for this range",
	"overview_loading":         "Loading dashboard...",
	"overview_stale":           "Showing cached data from %s",
	"overview_updated":         "Updated %s",
	"overview_help":            "u usage range · c cost range · r refresh",
	"range_week":               "This Week",
	"range_month":              "This Month",
	"range_year":               "This Year",

	// Billing
	"billing_title":          "Billing History",
	"billing_total":          "Total Bills",
	"billing_paid":           "Paid",
	"billing_unpaid":         "Unpaid",
	"billing_unpaid_amount":  "Amount Due",
	"billing_total_usage":    "Billed Usage",
	"billing_paid_ratio":     "Bills Paid",
	"billing_col_id":         "Bill",
	"billing_col_date":       "Date",
	"billing_col_usage":      "Usage",
	"billing_col_amount":     "Amount",
	"billing_col_status":     "Status",
	"billing_status_paid":    "paid",
	"billing_status_unpaid":  "unpaid",
	"billing_status_paying":  "redirecting",
	"billing_empty":          "No bills yet",
	"billing_loading":        "Loading bills...",
	"billing_help":           "j/k select · enter pay · r reload",
	"billing_payment_opened": "Checkout opened for bill #%d",
	"billing_reconciled":     "Bills reloaded",

	// Complaints
	"complaints_title":       "My Complaints",
	"complaints_filter":      "Filter: %s",
	"complaints_counts":      "%d total · %d pending · %d investigating · %d resolved",
	"complaints_new":         "New Complaint",
	"complaints_subject":     "Subject",
	"complaints_description": "Description",
	"complaints_priority":    "Priority",
	"complaints_form_help":   "tab next field · ←/→ priority · ctrl+d submit · esc close",
	"complaints_help":        "n new · f filter · j/k select · r reload",
	"complaints_empty":       "No complaints found",
	"complaints_loading":     "Loading complaints...",
	"complaints_submitted":   "Complaint submitted successfully!",
	"complaints_submitting":  "Submitting...",

	// Chat
	"chat_title":       "Kora Assistant",
	"chat_you":         "You",
	"chat_ai":          "Kora",
	"chat_placeholder": "Ask about your bills, usage or outages...",
	"chat_thinking":    "Thinking...",
	"chat_help":        "enter send · esc leave input · i type",

	// Help overlay
	"keyboard_shortcuts": "Keyboard Shortcuts",
	"help_navigate":      "Move selection",
	"help_ranges":        "Cycle usage / cost range",
	"help_pay":           "Pay selected bill",
	"help_new_complaint": "New complaint",
	"help_filter":        "Cycle status filter",
	"help_submit":        "Submit complaint form",
	"help_close":         "Press ? or Esc to close",

	// Settings overlay
	"settings":             "Settings",
	"setting_refresh":      "Refresh (sec)",
	"setting_language":     "Language",
	"setting_time_range":   "Usage range",
	"setting_open_browser": "Open browser",
	"settings_help":        "↑/↓ select · ←/→ change · Esc save & close",
}
