package pages

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gwconsole/internal/gateway"
)

const usageWindow = 30 * 24 * time.Hour

type UsageGateway interface {
	GetUsage(ctx context.Context, params gateway.UsageParams) (*gateway.UsageData, error)
}

type UsageQuery struct {
	From  string `json:"from"`
	To    string `json:"to"`
	KeyID string `json:"key_id,omitempty"`
}

// DefaultUsageQuery covers the 30 days ending at now.
func DefaultUsageQuery(now time.Time) UsageQuery {
	return UsageQuery{
		From: now.Add(-usageWindow).Format(usageDateLayout),
		To:   now.Format(usageDateLayout),
	}
}

func (q UsageQuery) normalized(now time.Time) UsageQuery {
	defaults := DefaultUsageQuery(now)
	q.From = strings.TrimSpace(q.From)
	q.To = strings.TrimSpace(q.To)
	q.KeyID = strings.TrimSpace(q.KeyID)
	if q.From == "" {
		q.From = defaults.From
	}
	if q.To == "" {
		q.To = defaults.To
	}
	return q
}

type UsagePoint struct {
	Day          string `json:"day"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
	Tokens       string `json:"tokens"`
	Requests     string `json:"requests"`
}

type UsageView struct {
	Notice
	Query        UsageQuery   `json:"query"`
	TotalTokens  int64        `json:"total_tokens"`
	RequestCount int64        `json:"request_count"`
	Tokens       string       `json:"tokens"`
	Requests     string       `json:"requests"`
	Timeseries   []UsagePoint `json:"timeseries"`
}

type UsagePage struct {
	gw  UsageGateway
	now clock
}

func NewUsagePage(gw UsageGateway) *UsagePage {
	return &UsagePage{gw: gw}
}

func (p *UsagePage) Load(ctx context.Context, q UsageQuery) (*UsageView, error) {
	q = q.normalized(p.now.now())
	view := &UsageView{Query: q, Tokens: "0", Requests: "0", Timeseries: []UsagePoint{}}

	usage, err := p.gw.GetUsage(ctx, gateway.UsageParams{From: q.From, To: q.To, KeyID: q.KeyID})
	if err != nil {
		view.Error = errorText(err, "Failed to load usage")
		return view, err
	}

	view.TotalTokens = usage.Totals.TotalTokens
	view.RequestCount = usage.Totals.RequestCount
	view.Tokens = FormatNumber(usage.Totals.TotalTokens)
	view.Requests = FormatNumber(usage.Totals.RequestCount)
	for _, pt := range usage.Timeseries {
		view.Timeseries = append(view.Timeseries, UsagePoint{
			Day:          pt.Day,
			TotalTokens:  pt.TotalTokens,
			RequestCount: pt.RequestCount,
			Tokens:       FormatNumber(pt.TotalTokens),
			Requests:     FormatNumber(pt.RequestCount),
		})
	}
	return view, nil
}

type RequestsGateway interface {
	ListRequests(ctx context.Context) ([]gateway.RequestLog, error)
}

type RequestRow struct {
	ID           string  `json:"id"`
	Time         string  `json:"time"`
	Method       string  `json:"method"`
	Endpoint     string  `json:"endpoint"`
	StatusCode   int     `json:"status_code"`
	Variant      Variant `json:"variant"`
	ResponseTime string  `json:"response_time"`
	Tokens       string  `json:"tokens"`
	UserID       string  `json:"user_id,omitempty"`
	KeyID        string  `json:"key_id,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	RequestBody  string  `json:"request_body,omitempty"`
	ResponseBody string  `json:"response_body,omitempty"`
}

type RequestsView struct {
	Notice
	Requests []RequestRow `json:"requests"`
}

type RequestsPage struct {
	gw RequestsGateway
}

func NewRequestsPage(gw RequestsGateway) *RequestsPage {
	return &RequestsPage{gw: gw}
}

func (p *RequestsPage) Load(ctx context.Context) (*RequestsView, error) {
	view := &RequestsView{Requests: []RequestRow{}}
	logs, err := p.gw.ListRequests(ctx)
	if err != nil {
		view.Error = errorText(err, "Failed to load request logs")
		return view, err
	}
	for _, l := range logs {
		view.Requests = append(view.Requests, RequestRow{
			ID:           l.ID,
			Time:         LogTimestamp(l.Timestamp),
			Method:       l.Method,
			Endpoint:     l.Endpoint,
			StatusCode:   l.StatusCode,
			Variant:      StatusVariant(l.StatusCode),
			ResponseTime: ResponseTime(l.ResponseTimeMS),
			Tokens:       FormatNumber(l.TokensUsed),
			UserID:       l.UserID,
			KeyID:        l.KeyID,
			ErrorMessage: l.ErrorMessage,
			RequestBody:  PrettyBody(l.RequestBody),
			ResponseBody: PrettyBody(l.ResponseBody),
		})
	}
	return view, nil
}

// Find returns the row with id, or nil.
func (v *RequestsView) Find(id string) *RequestRow {
	for i := range v.Requests {
		if v.Requests[i].ID == id {
			return &v.Requests[i]
		}
	}
	return nil
}

type DashboardGateway interface {
	ListUsers(ctx context.Context, params gateway.UserListParams) (*gateway.Page[gateway.User], error)
	ListKeys(ctx context.Context, params gateway.KeyListParams) (*gateway.Page[gateway.APIKey], error)
	GetUsage(ctx context.Context, params gateway.UsageParams) (*gateway.UsageData, error)
}

type DashboardView struct {
	Notice
	Users      int    `json:"users"`
	Keys       int    `json:"keys"`
	ActiveKeys int    `json:"active_keys"`
	Tokens     string `json:"tokens_30d"`
	Requests   string `json:"requests_30d"`
}

type DashboardPage struct {
	gw  DashboardGateway
	now clock
}

func NewDashboardPage(gw DashboardGateway) *DashboardPage {
	return &DashboardPage{gw: gw}
}

// Load fetches the counters concurrently; the first failure wins.
func (p *DashboardPage) Load(ctx context.Context) (*DashboardView, error) {
	view := &DashboardView{Tokens: "0", Requests: "0"}
	window := DefaultUsageQuery(p.now.now())

	var (
		users, keys, active int
		totals              gateway.UsageTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := p.gw.ListUsers(gctx, gateway.UserListParams{Page: 1, PageSize: 10})
		if err != nil {
			return err
		}
		users = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := p.gw.ListKeys(gctx, gateway.KeyListParams{Page: 1, PageSize: 10})
		if err != nil {
			return err
		}
		keys = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := p.gw.ListKeys(gctx, gateway.KeyListParams{Page: 1, PageSize: 10, Status: gateway.KeyActive})
		if err != nil {
			return err
		}
		active = page.Total
		return nil
	})
	g.Go(func() error {
		usage, err := p.gw.GetUsage(gctx, gateway.UsageParams{From: window.From, To: window.To})
		if err != nil {
			return err
		}
		totals = usage.Totals
		return nil
	})

	if err := g.Wait(); err != nil {
		view.Error = errorText(err, "Failed to load dashboard")
		return view, err
	}

	view.Users = users
	view.Keys = keys
	view.ActiveKeys = active
	view.Tokens = FormatNumber(totals.TotalTokens)
	view.Requests = FormatNumber(totals.RequestCount)
	return view, nil
}
