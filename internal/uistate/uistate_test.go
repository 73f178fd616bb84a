package uistate

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudface-ai/webedge/pkg/billing"
	"github.com/cloudface-ai/webedge/pkg/prompt"
)

func TestSnapshotAccumulatesEffects(t *testing.T) {
	s := New()

	require.NoError(t, s.Show(prompt.VariantIOS))
	s.ShowTrialBanner(5)
	s.SetUsage("Free", 80, 100, 80)
	s.ShowDiscountModal()
	s.ShowProfileModal(billing.Profile{Name: "Asha"})

	snap := s.Snapshot()
	assert.Equal(t, "ios", snap.InstallBanner)
	assert.True(t, snap.TrialBanner)
	assert.Equal(t, 5, snap.TrialDaysLeft)
	require.NotNil(t, snap.Usage)
	assert.Equal(t, 80, snap.Usage.Percentage)
	assert.True(t, snap.DiscountModal)
	assert.True(t, snap.ProfileModal)
	require.NotNil(t, snap.ProfilePrefill)
	assert.Equal(t, "Asha", snap.ProfilePrefill.Name)
	assert.False(t, snap.UpgradeModal)
}

func TestRemoveClearsBanner(t *testing.T) {
	s := New()
	require.NoError(t, s.Show(prompt.VariantInstall))
	assert.Equal(t, "install", s.Snapshot().InstallBanner)

	s.Remove()
	assert.Empty(t, s.Snapshot().InstallBanner)
}

func TestSnapshotJSONShape(t *testing.T) {
	s := New()
	s.ShowUpgradeModal()

	body, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, true, decoded["upgrade_modal"])
	assert.NotContains(t, decoded, "usage")
	assert.NotContains(t, decoded, "install_banner")
}

func TestConcurrentWriters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetUsage("Free", 1, 100, 1)
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	require.NotNil(t, s.Snapshot().Usage)
}
