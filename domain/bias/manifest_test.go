package bias

import (
	"testing"

	"refwatch/domain/core"
)

func sampleProfiles() map[core.RefereeID]*RefereeProfile {
	return map[core.RefereeID]*RefereeProfile{
		"R1": {RefereeID: "R1", Name: "One", Matches: 5, Penalties: 12, AvgPenalties: 2.4},
		"R2": {RefereeID: "R2", Name: "Two", Matches: 3, Penalties: 9, AvgPenalties: 3.0,
			Observations: []Observation{{Kind: KindPenaltyRate, Severity: SeverityMedium, Description: "hot whistle"}}},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := ComputeFingerprint(sampleProfiles())
	b := ComputeFingerprint(sampleProfiles())
	if !a.Equals(b) {
		t.Errorf("identical profiles must fingerprint identically: %s vs %s", a, b)
	}
	if a.IsEmpty() {
		t.Error("fingerprint should not be empty")
	}
}

func TestFingerprintSensitiveToContent(t *testing.T) {
	base := ComputeFingerprint(sampleProfiles())

	changed := sampleProfiles()
	changed["R1"].Penalties = 13
	if ComputeFingerprint(changed).Equals(base) {
		t.Error("changed profile content must change the fingerprint")
	}
}

func TestNewRunManifestInitialized(t *testing.T) {
	m := NewRunManifest("2025", "hockey")
	if m.RunID == "" {
		t.Error("manifest should carry a run ID")
	}
	if m.ObservationCounts == nil || m.Thresholds == nil {
		t.Error("manifest maps should be initialized")
	}
	if m.CreatedAt.IsZero() {
		t.Error("manifest should carry a creation timestamp")
	}
}
