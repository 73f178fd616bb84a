// Package prompt implements the install banner state machine.
//
// One Controller is constructed per page load. Three independent triggers
// can race to show a banner — the native before-install signal, the iOS
// page-load path and the delayed generic fallback — so banner creation is
// latched: it happens at most once per controller lifetime and never at
// all when a previous session dismissed it or the app already runs
// standalone.
package prompt

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudface-ai/webedge/pkg/flags"
)

// State is the controller state.
type State int

const (
	// StateIdle is the initial state; terminal when running standalone.
	StateIdle State = iota

	// StatePromptCaptured means a native install prompt handle is held.
	StatePromptCaptured

	// StateBannerShown means a banner variant is on screen.
	StateBannerShown

	// StateDismissed means the user declined; persisted across sessions.
	StateDismissed

	// StateAccepted means the user accepted the native install prompt.
	StateAccepted
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StatePromptCaptured:
		return "prompt_captured"
	case StateBannerShown:
		return "banner_shown"
	case StateDismissed:
		return "dismissed"
	case StateAccepted:
		return "accepted"
	default:
		return "idle"
	}
}

// Outcome is the user's choice on the native install prompt.
type Outcome string

// OutcomeAccepted is the only outcome that counts as an install.
const OutcomeAccepted Outcome = "accepted"

// NativePrompt is a captured platform install prompt handle.
type NativePrompt interface {
	// Prompt invokes the native prompt and blocks for the user's choice.
	Prompt(ctx context.Context) (Outcome, error)
}

// Variant selects the banner rendition.
type Variant int

const (
	// VariantInstall carries a working install button (native prompt held).
	VariantInstall Variant = iota

	// VariantIOS shows add-to-home-screen instructions, no install button.
	VariantIOS

	// VariantGeneric points at the browser menu, no install button.
	VariantGeneric
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantIOS:
		return "ios"
	case VariantGeneric:
		return "generic"
	default:
		return "install"
	}
}

// Banner abstracts the rendered banner surface.
type Banner interface {
	Show(variant Variant) error
	Remove()
}

// DefaultGenericDelay is how long after load the generic fallback banner
// fires when no native prompt arrived.
const DefaultGenericDelay = 5 * time.Second

// Controller decides whether and when to show the install banner.
type Controller struct {
	flags    flags.Store
	banner   Banner
	platform Platform
	delay    time.Duration
	logger   zerolog.Logger

	mu          sync.Mutex
	state       State
	prompt      NativePrompt
	bannerShown bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithGenericDelay overrides the generic fallback banner delay.
func WithGenericDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// NewController creates a controller in the Idle state.
func NewController(store flags.Store, banner Banner, platform Platform, opts ...Option) *Controller {
	c := &Controller{
		flags:    store,
		banner:   banner,
		platform: platform,
		delay:    DefaultGenericDelay,
		logger:   log.With().Str("component", "install-prompt").Logger(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandlePageLoad runs the load-time triggers. Running standalone makes
// Idle terminal: no banner, no listener side effects for the whole page
// lifetime. On iOS the instructional banner shows immediately.
func (c *Controller) HandlePageLoad(ctx context.Context) {
	switch c.platform {
	case PlatformStandalone:
		c.logger.Debug().Msg("Running standalone, install banner disabled")
	case PlatformIOS:
		c.createBanner(ctx, VariantIOS)
	}
}

// Start arms the delayed generic fallback trigger. The timer is canceled
// implicitly when ctx is done (page unload).
func (c *Controller) Start(ctx context.Context) {
	if c.platform != PlatformOther {
		return
	}
	go func() {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			c.HandleGenericDelay(ctx)
		}
	}()
}

// HandleGenericDelay fires the generic fallback: a banner pointing at the
// browser menu, shown only if no native prompt was captured in time. The
// timer races the native event; the banner latch is the only mitigation
// when the native signal arrives late.
func (c *Controller) HandleGenericDelay(ctx context.Context) {
	c.mu.Lock()
	captured := c.prompt != nil
	c.mu.Unlock()
	if captured {
		return
	}
	c.createBanner(ctx, VariantGeneric)
}

// HandleBeforeInstallPrompt captures the native prompt handle and shows
// the install-variant banner. The native mini-infobar suppression is the
// caller's concern; this controller only records the handle.
func (c *Controller) HandleBeforeInstallPrompt(ctx context.Context, p NativePrompt) {
	if c.platform == PlatformStandalone {
		return
	}

	c.mu.Lock()
	c.prompt = p
	if c.state == StateIdle {
		c.state = StatePromptCaptured
	}
	c.mu.Unlock()

	c.createBanner(ctx, VariantInstall)
}

// HandleInstallClick invokes the captured native prompt and settles the
// state from the user's choice. Any outcome other than accepted — and any
// prompt error — persists the dismissal flag; either way the handle is
// cleared and the banner removed.
func (c *Controller) HandleInstallClick(ctx context.Context) {
	c.mu.Lock()
	p := c.prompt
	c.mu.Unlock()
	if p == nil {
		return
	}

	outcome, err := p.Prompt(ctx)

	c.mu.Lock()
	c.prompt = nil
	c.mu.Unlock()
	c.banner.Remove()

	if err != nil || outcome != OutcomeAccepted {
		if err != nil {
			c.logger.Warn().Err(err).Msg("Native install prompt failed, treating as decline")
		}
		c.persistDismissed(ctx)
		c.setState(StateDismissed)
		BannersResolved.WithLabelValues("declined").Inc()
		return
	}

	c.setState(StateAccepted)
	BannersResolved.WithLabelValues("accepted").Inc()
	c.logger.Info().Msg("Install prompt accepted")
}

// HandleNotNow handles the decline action on any banner variant.
func (c *Controller) HandleNotNow(ctx context.Context) {
	c.persistDismissed(ctx)
	c.banner.Remove()
	c.setState(StateDismissed)
	BannersResolved.WithLabelValues("not_now").Inc()
}

// createBanner shows a banner variant at most once per controller
// lifetime and never when a previous session persisted a dismissal.
func (c *Controller) createBanner(ctx context.Context, variant Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bannerShown {
		return
	}
	if c.dismissed(ctx) {
		c.logger.Debug().Msg("Install banner previously dismissed, not showing")
		return
	}

	if err := c.banner.Show(variant); err != nil {
		c.logger.Warn().Err(err).Str("variant", variant.String()).Msg("Failed to show banner")
		return
	}

	c.bannerShown = true
	c.state = StateBannerShown
	BannersShown.WithLabelValues(variant.String()).Inc()
	c.logger.Debug().Str("variant", variant.String()).Msg("Install banner shown")
}

// dismissed reads the persisted flag; read errors count as not dismissed.
// Callers hold c.mu.
func (c *Controller) dismissed(ctx context.Context) bool {
	value, err := c.flags.Get(ctx, flags.InstallDismissed)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read dismissal flag")
		return false
	}
	return value == flags.Set
}

func (c *Controller) persistDismissed(ctx context.Context) {
	if err := c.flags.Set(ctx, flags.InstallDismissed, flags.Set); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist dismissal flag")
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
