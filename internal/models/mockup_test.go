package models

import "testing"

func TestMockupStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to MockupStatus
		want     bool
	}{
		{StatusPending, StatusGenerating, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusGenerating, StatusCompleted, true},
		{StatusGenerating, StatusFailed, true},
		{StatusGenerating, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusGenerating, false},
		{StatusFailed, StatusGenerating, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestMockupStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusGenerating.Terminal() {
		t.Error("pending and generating must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
}

func TestEnumValidators(t *testing.T) {
	if !ValidDeviceType(DeviceBoth) || ValidDeviceType("WATCH") {
		t.Error("device type validation broken")
	}
	if !ValidUILibrary(LibraryAceternity) || ValidUILibrary("BOOTSTRAP") {
		t.Error("ui library validation broken")
	}
	if !ValidModelTier(TierPro) || ValidModelTier("gpt-4") {
		t.Error("model tier validation broken")
	}
}
