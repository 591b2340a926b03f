// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openreview fetches conference submissions and their reply threads
// from the OpenReview API. Years before 2023 live on the v1 API; later
// years live on the v2 API with a v1 fallback, because several venues were
// still mirrored there. See docs/ARCHITECTURE § Fetching.
package openreview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/openreview-harvest/internal/httputil"
	"github.com/pdiddy/openreview-harvest/pkg/types"
)

const (
	defaultBaseV1    = "https://api.openreview.net"
	defaultBaseV2    = "https://api2.openreview.net"
	defaultPageLimit = 1000
	defaultRate      = 2.0

	// forumPageLimit bounds the reply fetch for one v2 submission.
	forumPageLimit = 100
)

// replyInvitationMarkers select which forum notes count as replies worth
// attaching to a v2 submission.
var replyInvitationMarkers = []string{"Review", "Meta_Review", "Decision", "Comment"}

// Client talks to both OpenReview API versions with shared pacing and
// retry behaviour.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
	limiter    *rate.Limiter
	profiles   map[int]VenueProfile

	tokenV1 string
	tokenV2 string
}

// NewClient builds a client from config, applying defaults for anything
// unset. Profile overrides are loaded eagerly so a malformed file fails the
// run up front instead of mid-collection.
func NewClient(cfg types.FetchConfig) (*Client, error) {
	if cfg.BaseURLV1 == "" {
		cfg.BaseURLV1 = defaultBaseV1
	}
	if cfg.BaseURLV2 == "" {
		cfg.BaseURLV2 = defaultBaseV2
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaultPageLimit
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}

	if cfg.ProfileFile != "" {
		profiles, err := LoadProfiles(cfg.ProfileFile)
		if err != nil {
			return nil, err
		}
		c.profiles = profiles
	}
	return c, nil
}

// profileFor resolves the venue profile for a year, preferring file overrides.
func (c *Client) profileFor(year int) VenueProfile {
	if p, ok := c.profiles[year]; ok {
		return p
	}
	return ProfileFor(year)
}

// Login authenticates against both API versions when credentials are
// configured. Anonymous access is fine for public venues, so no credentials
// is not an error.
func (c *Client) Login(ctx context.Context) error {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return nil
	}
	var err error
	if c.tokenV1, err = c.login(ctx, c.cfg.BaseURLV1); err != nil {
		return fmt.Errorf("v1 login: %w", err)
	}
	if c.tokenV2, err = c.login(ctx, c.cfg.BaseURLV2); err != nil {
		return fmt.Errorf("v2 login: %w", err)
	}
	return nil
}

func (c *Client) login(ctx context.Context, baseURL string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"id":       c.cfg.Username,
		"password": c.cfg.Password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned HTTP %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parsing login response: %w", err)
	}
	return out.Token, nil
}

// Submissions fetches all submissions for a year, with reply threads
// attached, normalized for the processing pipeline. Progress lines go to w.
func (c *Client) Submissions(ctx context.Context, year int, w io.Writer) ([]types.Submission, error) {
	profile := c.profileFor(year)

	if profile.APIv2 {
		notes, err := c.fetchV2(ctx, profile, w)
		if err != nil {
			return nil, err
		}
		if len(notes) == 0 {
			// Some venue years are only mirrored on the old API.
			fmt.Fprintf(w, "  v2 returned no results, falling back to v1\n")
			notes, err = c.fetchV1(ctx, profile, w)
			if err != nil {
				return nil, err
			}
		}
		return toSubmissions(notes), nil
	}

	notes, err := c.fetchV1(ctx, profile, w)
	if err != nil {
		return nil, err
	}
	return toSubmissions(notes), nil
}

func toSubmissions(notes []apiNote) []types.Submission {
	subs := make([]types.Submission, 0, len(notes))
	for _, n := range notes {
		subs = append(subs, n.toSubmission())
	}
	return subs
}

// fetchV1 walks the profile's invitation patterns against the v1 API,
// requesting directReplies inline, then falls back to venueid queries.
// Results are deduplicated by note id across patterns.
func (c *Client) fetchV1(ctx context.Context, profile VenueProfile, w io.Writer) ([]apiNote, error) {
	var all []apiNote

	for _, invitation := range profile.Invitations {
		fmt.Fprintf(w, "  trying v1 invitation: %s\n", invitation)
		notes, err := c.paginate(ctx, c.cfg.BaseURLV1, c.tokenV1, url.Values{
			"invitation": {invitation},
			"details":    {"directReplies"},
		})
		if err != nil {
			fmt.Fprintf(w, "  warning: %s: %v\n", invitation, err)
			continue
		}
		if len(notes) > 0 {
			fmt.Fprintf(w, "  found %d notes\n", len(notes))
			all = append(all, notes...)
		}
	}

	if len(all) == 0 {
		for _, venueID := range profile.FallbackVenueIDs {
			fmt.Fprintf(w, "  trying v1 venueid: %s\n", venueID)
			notes, err := c.paginate(ctx, c.cfg.BaseURLV1, c.tokenV1, url.Values{
				"content.venueid": {venueID},
				"details":         {"directReplies"},
			})
			if err != nil {
				fmt.Fprintf(w, "  warning: venueid %s: %v\n", venueID, err)
				continue
			}
			if len(notes) > 0 {
				fmt.Fprintf(w, "  found %d notes\n", len(notes))
				all = append(all, notes...)
				break
			}
		}
	}

	return dedupeNotes(all), nil
}

// fetchV2 walks the profile's invitation patterns against the v2 API, then
// venueid queries, and attaches forum replies to each submission (the v2
// notes endpoint does not inline them).
func (c *Client) fetchV2(ctx context.Context, profile VenueProfile, w io.Writer) ([]apiNote, error) {
	var notes []apiNote

	for _, invitation := range profile.Invitations {
		fmt.Fprintf(w, "  trying v2 invitation: %s\n", invitation)
		batch, err := c.paginate(ctx, c.cfg.BaseURLV2, c.tokenV2, url.Values{
			"invitation": {invitation},
		})
		if err != nil {
			fmt.Fprintf(w, "  warning: %s: %v\n", invitation, err)
			continue
		}
		if len(batch) > 0 {
			notes = batch
			break
		}
	}

	if len(notes) == 0 {
		for _, venueID := range profile.FallbackVenueIDs {
			fmt.Fprintf(w, "  trying v2 venueid: %s\n", venueID)
			batch, err := c.paginate(ctx, c.cfg.BaseURLV2, c.tokenV2, url.Values{
				"content.venueid": {venueID},
			})
			if err != nil {
				fmt.Fprintf(w, "  warning: venueid %s: %v\n", venueID, err)
				continue
			}
			if len(batch) > 0 {
				notes = batch
				break
			}
		}
	}

	notes = dedupeNotes(notes)
	if len(notes) == 0 {
		return nil, nil
	}

	fmt.Fprintf(w, "  found %d notes, fetching reply threads\n", len(notes))
	for i := range notes {
		replies, err := c.forumReplies(ctx, notes[i].ID)
		if err != nil {
			// A missing thread degrades to a paper without reviews.
			fmt.Fprintf(w, "  warning: replies for %s: %v\n", notes[i].ID, err)
			continue
		}
		notes[i].Details = &noteDetails{Replies: replies}
	}
	return notes, nil
}

// forumReplies fetches the reply thread of one v2 submission, keeping only
// notes whose invitations mark them as reviews, meta-reviews, decisions, or
// comments. The root note itself is excluded.
func (c *Client) forumReplies(ctx context.Context, forumID string) ([]apiNote, error) {
	notes, err := c.getNotes(ctx, c.cfg.BaseURLV2, c.tokenV2, url.Values{
		"forum": {forumID},
		"limit": {strconv.Itoa(forumPageLimit)},
	})
	if err != nil {
		return nil, err
	}

	var replies []apiNote
	for _, n := range notes {
		if n.ID == forumID {
			continue
		}
		for _, inv := range n.invitationList() {
			if containsMarker(inv) {
				replies = append(replies, n)
				break
			}
		}
	}
	return replies, nil
}

func containsMarker(invitation string) bool {
	for _, m := range replyInvitationMarkers {
		if strings.Contains(invitation, m) {
			return true
		}
	}
	return false
}

// paginate walks limit/offset batches until a short batch.
func (c *Client) paginate(ctx context.Context, baseURL, token string, params url.Values) ([]apiNote, error) {
	var all []apiNote
	offset := 0
	for {
		p := url.Values{}
		for k, v := range params {
			p[k] = v
		}
		p.Set("limit", strconv.Itoa(c.cfg.PageLimit))
		p.Set("offset", strconv.Itoa(offset))

		batch, err := c.getNotes(ctx, baseURL, token, p)
		if err != nil {
			return all, err
		}
		all = append(all, batch...)
		if len(batch) < c.cfg.PageLimit {
			return all, nil
		}
		offset += c.cfg.PageLimit
	}
}

// getNotes performs one paced, retried GET against a notes endpoint.
func (c *Client) getNotes(ctx context.Context, baseURL, token string, params url.Values) ([]apiNote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/notes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("notes request: %w", err)
	}
	defer resp.Body.Close()

	// Unknown invitations 404 on the v1 API; that is an empty result, not
	// an error.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notes endpoint returned HTTP %d", resp.StatusCode)
	}

	var nr notesResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("parsing notes response: %w", err)
	}
	return nr.Notes, nil
}

func dedupeNotes(notes []apiNote) []apiNote {
	seen := make(map[string]bool, len(notes))
	var out []apiNote
	for _, n := range notes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}
