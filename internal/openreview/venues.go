// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openreview

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// VenueProfile declares how one conference year is fetched: which API
// version hosts it, which submission invitations to try (in order), and
// which venueid queries to fall back to when the invitations return
// nothing. The per-year quirks live here as data instead of being scattered
// through fetch code.
type VenueProfile struct {
	Year        int      `yaml:"year"`
	VenueID     string   `yaml:"venue_id"`
	APIv2       bool     `yaml:"api_v2"`
	Invitations []string `yaml:"invitations"`

	// FallbackVenueIDs are tried as content.venueid queries after every
	// invitation pattern came up empty.
	FallbackVenueIDs []string `yaml:"fallback_venue_ids"`
}

// ProfileFor returns the fetch profile for a year. Irregular years (2016's
// workshop-only track, 2017's lowercase venue paths, 2018's separate
// workshop invitation) are enumerated; regular years are generated.
func ProfileFor(year int) VenueProfile {
	venueID := fmt.Sprintf("ICLR.cc/%d/Conference", year)

	switch {
	case year == 2016:
		return VenueProfile{
			Year:    year,
			VenueID: venueID,
			Invitations: []string{
				"ICLR.cc/2016/workshop/-/submission",
				"ICLR.cc/2016/workshop/-/paper",
			},
			FallbackVenueIDs: []string{venueID},
		}
	case year == 2017:
		return VenueProfile{
			Year:    year,
			VenueID: venueID,
			Invitations: []string{
				"ICLR.cc/2017/conference/-/submission",
				"ICLR.cc/2017/workshop/-/submission",
			},
			FallbackVenueIDs: []string{venueID},
		}
	case year == 2018:
		return VenueProfile{
			Year:    year,
			VenueID: venueID,
			Invitations: []string{
				"ICLR.cc/2018/Conference/-/Blind_Submission",
				"ICLR.cc/2018/Workshop/-/Submission",
			},
			FallbackVenueIDs: []string{venueID},
		}
	case year >= 2023:
		fallbacks := []string{venueID}
		if year >= 2024 {
			// Later years registered under the bare venue id as well.
			fallbacks = append(fallbacks, fmt.Sprintf("ICLR.cc/%d", year))
		}
		return VenueProfile{
			Year:    year,
			VenueID: venueID,
			APIv2:   true,
			Invitations: []string{
				venueID + "/-/Submission",
				venueID + "/-/Blind_Submission",
			},
			FallbackVenueIDs: fallbacks,
		}
	default: // 2019-2022
		return VenueProfile{
			Year:             year,
			VenueID:          venueID,
			Invitations:      []string{venueID + "/-/Blind_Submission"},
			FallbackVenueIDs: []string{venueID},
		}
	}
}

// LoadProfiles reads per-year profile overrides from a YAML file, a list of
// VenueProfile documents keyed by year. Years not present fall back to
// ProfileFor.
func LoadProfiles(path string) (map[int]VenueProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	var profiles []VenueProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profile file %s: %w", path, err)
	}
	out := make(map[int]VenueProfile, len(profiles))
	for _, p := range profiles {
		if p.Year == 0 {
			return nil, fmt.Errorf("profile file %s: entry missing year", path)
		}
		out[p.Year] = p
	}
	return out, nil
}
