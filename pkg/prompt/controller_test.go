package prompt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudface-ai/webedge/pkg/flags"
)

// fakeBanner records show/remove calls.
type fakeBanner struct {
	shown   []Variant
	removed int
}

func (b *fakeBanner) Show(variant Variant) error {
	b.shown = append(b.shown, variant)
	return nil
}

func (b *fakeBanner) Remove() {
	b.removed++
}

// fakePrompt is a canned native install prompt.
type fakePrompt struct {
	outcome Outcome
	err     error
	invoked int
}

func (p *fakePrompt) Prompt(ctx context.Context) (Outcome, error) {
	p.invoked++
	return p.outcome, p.err
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		standalone bool
		want       Platform
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", false, PlatformIOS},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", false, PlatformIOS},
		{"android", "Mozilla/5.0 (Linux; Android 14; Pixel 8)", false, PlatformOther},
		{"desktop chrome", "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0", false, PlatformOther},
		{"standalone wins over ios", "Mozilla/5.0 (iPhone)", true, PlatformStandalone},
		{"standalone desktop", "Mozilla/5.0 (X11; Linux x86_64)", true, PlatformStandalone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.userAgent, tt.standalone))
		})
	}
}

func TestController_NativePromptFlow(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformOther)
	ctx := context.Background()

	c.HandlePageLoad(ctx)
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, banner.shown)

	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})
	assert.Equal(t, StateBannerShown, c.State())
	require.Len(t, banner.shown, 1)
	assert.Equal(t, VariantInstall, banner.shown[0])
}

func TestController_AcceptDoesNotPersistDismissal(t *testing.T) {
	store := flags.NewMemoryStore()
	banner := &fakeBanner{}
	c := NewController(store, banner, PlatformOther)
	ctx := context.Background()

	p := &fakePrompt{outcome: OutcomeAccepted}
	c.HandleBeforeInstallPrompt(ctx, p)
	c.HandleInstallClick(ctx)

	assert.Equal(t, StateAccepted, c.State())
	assert.Equal(t, 1, p.invoked)
	assert.Equal(t, 1, banner.removed)

	value, _ := store.Get(ctx, flags.InstallDismissed)
	assert.Empty(t, value, "accepting must not set the dismissal flag")
}

func TestController_DeclinePersistsDismissal(t *testing.T) {
	store := flags.NewMemoryStore()
	banner := &fakeBanner{}
	c := NewController(store, banner, PlatformOther)
	ctx := context.Background()

	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: Outcome("dismissed")})
	c.HandleInstallClick(ctx)

	assert.Equal(t, StateDismissed, c.State())
	value, _ := store.Get(ctx, flags.InstallDismissed)
	assert.Equal(t, flags.Set, value)
}

func TestController_PromptErrorTreatedAsDecline(t *testing.T) {
	store := flags.NewMemoryStore()
	banner := &fakeBanner{}
	c := NewController(store, banner, PlatformOther)
	ctx := context.Background()

	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{err: errors.New("prompt failed")})
	c.HandleInstallClick(ctx)

	assert.Equal(t, StateDismissed, c.State())
	value, _ := store.Get(ctx, flags.InstallDismissed)
	assert.Equal(t, flags.Set, value)
	assert.Equal(t, 1, banner.removed)
}

func TestController_NotNowPersistsDismissal(t *testing.T) {
	store := flags.NewMemoryStore()
	banner := &fakeBanner{}
	c := NewController(store, banner, PlatformOther)
	ctx := context.Background()

	c.HandleGenericDelay(ctx)
	require.Equal(t, StateBannerShown, c.State())

	c.HandleNotNow(ctx)
	assert.Equal(t, StateDismissed, c.State())
	assert.Equal(t, 1, banner.removed)

	value, _ := store.Get(ctx, flags.InstallDismissed)
	assert.Equal(t, flags.Set, value)
}

func TestController_BannerShownAtMostOnce(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformOther)
	ctx := context.Background()

	// All three triggers racing must still produce a single banner
	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})
	c.HandleGenericDelay(ctx)
	c.HandlePageLoad(ctx)
	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})

	assert.Len(t, banner.shown, 1, "banner must be shown at most once per page load")
}

func TestController_DismissedSuppressesEveryTrigger(t *testing.T) {
	store := flags.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, flags.InstallDismissed, flags.Set))

	banner := &fakeBanner{}
	c := NewController(store, banner, PlatformOther)

	c.HandlePageLoad(ctx)
	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})
	c.HandleGenericDelay(ctx)

	assert.Empty(t, banner.shown, "dismissed flag must suppress all banner triggers")
}

func TestController_StandaloneIsTerminal(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformStandalone)
	ctx := context.Background()

	c.HandlePageLoad(ctx)
	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})
	c.HandleGenericDelay(ctx)

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, banner.shown)

	// No captured handle means install clicks are inert too
	c.HandleInstallClick(ctx)
	assert.Equal(t, StateIdle, c.State())
}

func TestController_IOSInstructionalBannerOnLoad(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformIOS)

	c.HandlePageLoad(context.Background())

	require.Len(t, banner.shown, 1)
	assert.Equal(t, VariantIOS, banner.shown[0])
	assert.Equal(t, StateBannerShown, c.State())
}

func TestController_GenericDelaySkippedWhenPromptCaptured(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformOther)
	ctx := context.Background()

	c.HandleBeforeInstallPrompt(ctx, &fakePrompt{outcome: OutcomeAccepted})
	c.HandleGenericDelay(ctx)

	require.Len(t, banner.shown, 1)
	assert.Equal(t, VariantInstall, banner.shown[0], "generic variant must not replace the install variant")
}

func TestController_StartFiresGenericBanner(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformOther, WithGenericDelay(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Start(ctx)

	assert.Eventually(t, func() bool {
		return c.State() == StateBannerShown
	}, time.Second, 5*time.Millisecond)
	require.Len(t, banner.shown, 1)
	assert.Equal(t, VariantGeneric, banner.shown[0])
}

func TestController_StartCanceledByUnload(t *testing.T) {
	banner := &fakeBanner{}
	c := NewController(flags.NewMemoryStore(), banner, PlatformOther, WithGenericDelay(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	c.Start(ctx)
	cancel() // page unloads before the timer fires

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, banner.shown, "canceled timer must not show a banner")
}
