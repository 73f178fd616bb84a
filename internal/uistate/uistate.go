// Package uistate accumulates the UI effects produced by the install-prompt
// controller and the billing poller into a single snapshot that pages fetch
// from GET /ui/state and render client-side.
package uistate

import (
	"sync"

	"github.com/cloudface-ai/webedge/pkg/billing"
	"github.com/cloudface-ai/webedge/pkg/prompt"
)

// Usage is the rendered usage-bar state.
type Usage struct {
	PlanName   string `json:"plan_name"`
	Used       int    `json:"used"`
	Limit      int    `json:"limit"`
	Percentage int    `json:"percentage"`
}

// Snapshot is the JSON document served to pages.
type Snapshot struct {
	InstallBanner  string           `json:"install_banner,omitempty"`
	UpgradeModal   bool             `json:"upgrade_modal"`
	DiscountModal  bool             `json:"discount_modal"`
	TrialBanner    bool             `json:"trial_banner"`
	TrialDaysLeft  int              `json:"trial_days_left,omitempty"`
	Usage          *Usage           `json:"usage,omitempty"`
	ProfileModal   bool             `json:"profile_modal"`
	ProfilePrefill *billing.Profile `json:"profile_prefill,omitempty"`
}

// State implements prompt.Banner and billing.View over a mutable snapshot.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New returns an empty UI state.
func New() *State {
	return &State{}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Show records the install banner variant. It never fails; the page decides
// how to render each variant.
func (s *State) Show(variant prompt.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.InstallBanner = variant.String()
	return nil
}

// Remove clears the install banner.
func (s *State) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.InstallBanner = ""
}

// ShowUpgradeModal force-opens the upgrade modal.
func (s *State) ShowUpgradeModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.UpgradeModal = true
}

// ShowTrialBanner shows the trial banner with days remaining.
func (s *State) ShowTrialBanner(daysLeft int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.TrialBanner = true
	s.snap.TrialDaysLeft = daysLeft
}

// SetUsage renders the usage bar.
func (s *State) SetUsage(planName string, used, limit, percentage int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Usage = &Usage{
		PlanName:   planName,
		Used:       used,
		Limit:      limit,
		Percentage: percentage,
	}
}

// ShowDiscountModal opens the discount modal.
func (s *State) ShowDiscountModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.DiscountModal = true
}

// ShowProfileModal opens the profile modal prefilled.
func (s *State) ShowProfileModal(profile billing.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ProfileModal = true
	s.snap.ProfilePrefill = &profile
}
