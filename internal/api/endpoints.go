package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/koraenergy/kora-control/internal/domain"
)

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a bearer token and stores it in the
// session. Bad credentials come back as 401 and follow the usual policy.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) error {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "auth/login/", nil, creds, &out); err != nil {
		return err
	}
	if out.Access == "" {
		return ErrNoAccessToken
	}
	if err := c.session.Set(out.Access); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Logout drops the credential locally and navigates to login. The backend
// keeps no server-side session to revoke.
func (c *Client) Logout() error {
	_, err := c.session.Clear()
	c.nav.ToLogin()
	return err
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	if reg.Role == "" {
		reg.Role = domain.DefaultRole
	}
	return c.do(ctx, http.MethodPost, "auth/register/", nil, reg, nil)
}

// Stats fetches the overview summary.
func (c *Client) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := c.do(ctx, http.MethodGet, "dashboard/stats/", nil, nil, &out)
	return out, err
}

// UsageSeries fetches energy usage for r.
func (c *Client) UsageSeries(ctx context.Context, r domain.TimeRange) (domain.UsageSeries, error) {
	var out domain.UsageSeries
	if !r.Valid() {
		return out, fmt.Errorf("%w: %q", ErrInvalidTimeRange, r)
	}
	q := url.Values{"time_range": {string(r)}}
	err := c.do(ctx, http.MethodGet, "dashboard/usage/", q, nil, &out)
	return out, err
}

// CostSeries fetches billing cost for r.
func (c *Client) CostSeries(ctx context.Context, r domain.TimeRange) (domain.CostSeries, error) {
	var out domain.CostSeries
	if !r.Valid() {
		return out, fmt.Errorf("%w: %q", ErrInvalidTimeRange, r)
	}
	q := url.Values{"time_range": {string(r)}}
	err := c.do(ctx, http.MethodGet, "dashboard/cost/", q, nil, &out)
	return out, err
}

type activityResponse struct {
	Activities []domain.Activity `json:"activities"`
}

// Activity fetches the recent-activity feed.
func (c *Client) Activity(ctx context.Context) ([]domain.Activity, error) {
	var out activityResponse
	if err := c.do(ctx, http.MethodGet, "dashboard/activity/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

// Bills fetches the customer's bills.
func (c *Client) Bills(ctx context.Context) ([]domain.Bill, error) {
	var out []domain.Bill
	err := c.do(ctx, http.MethodGet, "billing/", nil, nil, &out)
	return out, err
}

// Checkout is the payment-start response. URL is empty when the gateway
// did not provide one.
type Checkout struct {
	URL   string `json:"checkout_url"`
	TxRef string `json:"tx_ref"`
}

// InitiatePayment starts a gateway payment for one bill.
func (c *Client) InitiatePayment(ctx context.Context, billID int64) (Checkout, error) {
	var out Checkout
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("payments/initiate/%d/", billID), nil, nil, &out)
	return out, err
}

// Complaints fetches the customer's tickets.
func (c *Client) Complaints(ctx context.Context) ([]domain.Complaint, error) {
	var out []domain.Complaint
	err := c.do(ctx, http.MethodGet, "complaints/", nil, nil, &out)
	return out, err
}

// Complaint fetches a single ticket.
func (c *Client) Complaint(ctx context.Context, id int64) (domain.Complaint, error) {
	var out domain.Complaint
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("complaints/%d/", id), nil, nil, &out)
	return out, err
}

// CreateComplaint submits a new ticket.
func (c *Client) CreateComplaint(ctx context.Context, nc domain.NewComplaint) (domain.Complaint, error) {
	var out domain.Complaint
	err := c.do(ctx, http.MethodPost, "complaints/", nil, nc, &out)
	return out, err
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends one user turn and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out chatResponse
	if err := c.do(ctx, http.MethodPost, "ai/chat/", nil, chatRequest{Message: message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}
