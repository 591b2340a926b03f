// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openreview

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		year            int
		wantAPIv2       bool
		wantInvitation  string
		wantFallbackLen int
	}{
		{2016, false, "ICLR.cc/2016/workshop/-/submission", 1},
		{2017, false, "ICLR.cc/2017/conference/-/submission", 1},
		{2018, false, "ICLR.cc/2018/Conference/-/Blind_Submission", 1},
		{2019, false, "ICLR.cc/2019/Conference/-/Blind_Submission", 1},
		{2022, false, "ICLR.cc/2022/Conference/-/Blind_Submission", 1},
		{2023, true, "ICLR.cc/2023/Conference/-/Submission", 1},
		{2024, true, "ICLR.cc/2024/Conference/-/Submission", 2},
		{2025, true, "ICLR.cc/2025/Conference/-/Submission", 2},
	}
	for _, tt := range tests {
		p := ProfileFor(tt.year)
		if p.Year != tt.year {
			t.Errorf("%d: year = %d", tt.year, p.Year)
		}
		if p.APIv2 != tt.wantAPIv2 {
			t.Errorf("%d: apiv2 = %v, want %v", tt.year, p.APIv2, tt.wantAPIv2)
		}
		if len(p.Invitations) == 0 || p.Invitations[0] != tt.wantInvitation {
			t.Errorf("%d: invitations = %v, want first %q", tt.year, p.Invitations, tt.wantInvitation)
		}
		if len(p.FallbackVenueIDs) != tt.wantFallbackLen {
			t.Errorf("%d: fallbacks = %v, want %d entries", tt.year, p.FallbackVenueIDs, tt.wantFallbackLen)
		}
	}
}

func TestProfileFor2024BareFallback(t *testing.T) {
	p := ProfileFor(2024)
	if p.FallbackVenueIDs[1] != "ICLR.cc/2024" {
		t.Errorf("second fallback = %q, want bare venue id", p.FallbackVenueIDs[1])
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
- year: 2024
  venue_id: ICLR.cc/2024/Conference
  api_v2: true
  invitations:
    - ICLR.cc/2024/Conference/-/Custom_Submission
  fallback_venue_ids:
    - ICLR.cc/2024/Conference
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	p, ok := profiles[2024]
	if !ok {
		t.Fatal("2024 profile missing")
	}
	if !p.APIv2 {
		t.Error("apiv2 not set")
	}
	if len(p.Invitations) != 1 || p.Invitations[0] != "ICLR.cc/2024/Conference/-/Custom_Submission" {
		t.Errorf("invitations = %v", p.Invitations)
	}
}

func TestLoadProfilesMissingYear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("- venue_id: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Error("expected error for entry without year")
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
