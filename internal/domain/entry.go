package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DashboardStats is the point-in-time summary shown on the overview.
// It is replaced wholesale on every fetch, never merged.
type DashboardStats struct {
	CurrentUsageKWh float64 `json:"current_usage_kwh"`
	PendingBillETB  float64 `json:"pending_bill_etb"`
	ActiveTickets   int     `json:"active_tickets"`
}

// TimeRange selects the window of an analytics series.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// Valid reports whether r is one of the ranges the backend understands.
func (r TimeRange) Valid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeYear:
		return true
	}
	return false
}

// Next cycles week -> month -> year -> week.
func (r TimeRange) Next() TimeRange {
	switch r {
	case RangeWeek:
		return RangeMonth
	case RangeMonth:
		return RangeYear
	default:
		return RangeWeek
	}
}

// UsagePoint is one chronological sample of energy usage. Position in the
// series is its only identity.
type UsagePoint struct {
	Name  string  `json:"name"`
	Usage float64 `json:"usage"`
}

// CostPoint is one chronological sample of cost.
type CostPoint struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// UsageSeries is the body of GET dashboard/usage/.
type UsageSeries struct {
	TimeRange TimeRange    `json:"time_range"`
	Data      []UsagePoint `json:"data"`
}

// CostSeries is the body of GET dashboard/cost/.
type CostSeries struct {
	TimeRange TimeRange   `json:"time_range"`
	Data      []CostPoint `json:"data"`
}

// ActivityType distinguishes the recent-activity feed items.
type ActivityType string

const (
	ActivityBill      ActivityType = "bill"
	ActivityComplaint ActivityType = "complaint"
)

// Activity is a single recent-activity feed item.
type Activity struct {
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Status      string       `json:"status"`
}

// Time parses the activity date, accepting RFC 3339 or a bare date.
func (a Activity) Time() (time.Time, error) {
	return parseServerTime(a.Date)
}

// Bill is a server-owned invoice. IsPaid only ever flips through the
// external payment flow; the client never writes it.
type Bill struct {
	ID          int64   `json:"id"`
	Amount      string  `json:"amount"`
	UsageKWh    float64 `json:"usage_kwh"`
	IsPaid      bool    `json:"is_paid"`
	BillingDate string  `json:"billing_date"`
}

// AmountValue parses the decimal amount string.
func (b Bill) AmountValue() (float64, error) {
	v, err := strconv.ParseFloat(b.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("bill %d amount %q: %w", b.ID, b.Amount, err)
	}
	return v, nil
}

// Date parses the billing date.
func (b Bill) Date() (time.Time, error) {
	return parseServerTime(b.BillingDate)
}

// Status of a complaint. Only the server moves a complaint between states.
type Status string

const (
	StatusPending       Status = "pending"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

// Statuses lists complaint states in display order.
var Statuses = []Status{StatusPending, StatusInvestigating, StatusResolved}

// Priority of a complaint, chosen by the customer at submission.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Complaint is a support ticket. Status and timestamps are server-computed.
type Complaint struct {
	ID          int64    `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Created parses the creation timestamp.
func (c Complaint) Created() (time.Time, error) {
	return parseServerTime(c.CreatedAt)
}

// Updated parses the last-update timestamp.
func (c Complaint) Updated() (time.Time, error) {
	return parseServerTime(c.UpdatedAt)
}

// NewComplaint is the create payload for POST complaints/.
type NewComplaint struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Role of a chat transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// ChatMessage is one transcript entry. Transcripts are append-only.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Credentials is the POST auth/login/ payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the POST auth/register/ payload. Role defaults to
// customer when empty.
type Registration struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
}

// DefaultRole is the role self-registered accounts receive.
const DefaultRole = "customer"

var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseServerTime(s string) (time.Time, error) {
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
