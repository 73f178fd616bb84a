// Package billing polls the account endpoints and drives the monetization
// UI: upgrade and discount modals, the trial banner, the usage bar and the
// profile-completion modal.
//
// Every check is best-effort. A transport failure, a non-2xx status or a
// response without success:true leaves the UI untouched; nothing here may
// break the hosting page.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudface-ai/webedge/pkg/flags"
)

// DefaultDiscountDelay is how long after a free-plan usage check the
// discount modal opens.
const DefaultDiscountDelay = 10 * time.Second

// PlanFree is the plan_type the server reports for unpaid accounts.
const PlanFree = "free"

// TrialStatus is the GET /api/trial-status response.
type TrialStatus struct {
	Success bool `json:"success"`
	Trial   struct {
		TrialStart string `json:"trial_start"`
		DaysLeft   int    `json:"days_left"`
		Expired    bool   `json:"expired"`
	} `json:"trial"`
	Plan struct {
		PlanType string `json:"plan_type"`
	} `json:"plan"`
	UpgradeRequired bool `json:"upgrade_required"`
}

// UsageStats is the GET /api/usage-stats response.
type UsageStats struct {
	Success bool `json:"success"`
	Stats   struct {
		PlanName string `json:"plan_name"`
		PlanType string `json:"plan_type"`
		Images   struct {
			Used       int `json:"used"`
			Limit      int `json:"limit"`
			Percentage int `json:"percentage"`
		} `json:"images"`
	} `json:"stats"`
}

// Profile is the user profile fragment exchanged with /api/user-profile.
type Profile struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	UseCase string `json:"use_case"`
}

// profileResponse is the GET /api/user-profile response.
type profileResponse struct {
	Success  bool    `json:"success"`
	Complete bool    `json:"complete"`
	Profile  Profile `json:"profile"`
}

// saveResponse is the POST /api/user-profile response.
type saveResponse struct {
	Success bool `json:"success"`
}

// Poller runs the monetization checks against the origin.
type Poller struct {
	origin        string
	client        *http.Client
	view          View
	flags         flags.Store
	discountDelay time.Duration
	logger        zerolog.Logger
}

// Option customizes a Poller.
type Option func(*Poller)

// WithHTTPClient overrides the transport client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(p *Poller) { p.client = client }
}

// WithDiscountDelay overrides the discount modal delay.
func WithDiscountDelay(d time.Duration) Option {
	return func(p *Poller) { p.discountDelay = d }
}

// NewPoller creates a poller against the origin base URL.
func NewPoller(origin string, view View, flagStore flags.Store, opts ...Option) *Poller {
	p := &Poller{
		origin:        origin,
		client:        &http.Client{Timeout: 10 * time.Second},
		view:          view,
		flags:         flagStore,
		discountDelay: DefaultDiscountDelay,
		logger:        log.With().Str("component", "billing").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs all load-time checks once. Scheduled effects (the discount
// modal) are canceled when ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.CheckTrial(ctx)
	p.CheckUsage(ctx)
	p.CheckProfile(ctx)
}

// CheckTrial fetches trial/plan state. upgrade_required, or a free plan
// whose trial has expired, forces the upgrade modal. A started trial shows
// the days-remaining banner instead.
func (p *Poller) CheckTrial(ctx context.Context) {
	var status TrialStatus
	if !p.getJSON(ctx, "/api/trial-status", &status) || !status.Success {
		return
	}

	if status.UpgradeRequired || (status.Plan.PlanType == PlanFree && status.Trial.Expired) {
		ChecksTotal.WithLabelValues("trial", "upgrade_modal").Inc()
		p.view.ShowUpgradeModal()
		return
	}

	if status.Trial.TrialStart != "" && !status.Trial.Expired {
		ChecksTotal.WithLabelValues("trial", "trial_banner").Inc()
		p.view.ShowTrialBanner(status.Trial.DaysLeft)
	}
}

// CheckUsage fetches usage statistics and renders the usage bar. Free-plan
// users who have not dismissed the discount offer get the discount modal
// after the configured delay.
func (p *Poller) CheckUsage(ctx context.Context) {
	var stats UsageStats
	if !p.getJSON(ctx, "/api/usage-stats", &stats) || !stats.Success {
		return
	}

	images := stats.Stats.Images
	p.view.SetUsage(stats.Stats.PlanName, images.Used, images.Limit, images.Percentage)
	ChecksTotal.WithLabelValues("usage", "rendered").Inc()

	if stats.Stats.PlanType != PlanFree {
		return
	}
	dismissed, err := p.flags.Get(ctx, flags.DiscountDismissed)
	if err != nil || dismissed == flags.Set {
		return
	}

	timer := time.NewTimer(p.discountDelay)
	go func() {
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			ChecksTotal.WithLabelValues("usage", "discount_modal").Inc()
			p.view.ShowDiscountModal()
		}
	}()
}

// CheckProfile fetches the user profile and opens the completion modal,
// prefilled, when the server reports it incomplete.
func (p *Poller) CheckProfile(ctx context.Context) {
	var resp profileResponse
	if !p.getJSON(ctx, "/api/user-profile", &resp) || !resp.Success {
		return
	}
	if !resp.Complete {
		ChecksTotal.WithLabelValues("profile", "profile_modal").Inc()
		p.view.ShowProfileModal(resp.Profile)
	}
}

// SaveProfile posts the profile fields. It reports success only when the
// server explicitly answers success:true.
func (p *Poller) SaveProfile(ctx context.Context, profile Profile) bool {
	body, err := json.Marshal(profile)
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.origin+"/api/user-profile", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Profile save failed")
		return false
	}
	defer resp.Body.Close()

	var saved saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return false
	}
	return saved.Success
}

// getJSON fetches path and decodes the body into out. It reports false on
// any transport, status or decode failure.
func (p *Poller) getJSON(ctx context.Context, path string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.origin+path, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("path", path).Msg("Billing check failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug().Str("path", path).Str("status", fmt.Sprint(resp.StatusCode)).Msg("Billing check rejected")
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		p.logger.Debug().Err(err).Str("path", path).Msg("Billing response malformed")
		return false
	}
	return true
}
