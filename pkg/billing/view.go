package billing

// View receives monetization UI updates from the poller. Implementations
// must tolerate repeated calls; the poller makes no effort to deduplicate.
type View interface {
	// ShowUpgradeModal force-opens the upgrade modal.
	ShowUpgradeModal()

	// ShowTrialBanner shows the dismissible trial banner with the number
	// of days remaining.
	ShowTrialBanner(daysLeft int)

	// SetUsage renders the plan usage bar.
	SetUsage(planName string, used, limit, percentage int)

	// ShowDiscountModal opens the free-plan discount offer.
	ShowDiscountModal()

	// ShowProfileModal opens the profile-completion modal prefilled with
	// whatever the server already knows.
	ShowProfileModal(profile Profile)
}
