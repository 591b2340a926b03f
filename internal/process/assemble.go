// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// siteBase is the public OpenReview site, used to build forum and PDF URLs.
const siteBase = "https://openreview.net"

// now stamps crawl timestamps. Declared as a var so tests can substitute a
// fixed clock.
var now = time.Now

// anonymousReviewer is the reviewer_id fallback when a reply has no signatures.
const anonymousReviewer = "Anonymous"

// Assemble builds the canonical paper record for one submission. It fails
// only when the submission has no identifier; every other irregularity
// (missing fields, unknown content shapes, unclassifiable replies) degrades
// to empty fields so one broken reply never suppresses a paper.
func Assemble(sub types.Submission, year int) (types.Paper, error) {
	if sub.ID == "" {
		return types.Paper{}, fmt.Errorf("submission has no identifier")
	}

	content := Normalize(sub.Content)

	// Bucket replies. Meta-review and decision share a bucket: decision
	// notes double as rationale carriers.
	var reviewReplies, metaReplies []types.Reply
	workshop := false
	for _, reply := range sub.Replies {
		kind, ws := Classify(reply)
		workshop = workshop || ws
		switch kind {
		case KindReview:
			reviewReplies = append(reviewReplies, reply)
		case KindMetaReview:
			metaReplies = append(metaReplies, reply)
		}
	}

	reviews := []types.ReviewRecord{}
	for _, reply := range reviewReplies {
		// Re-checked here as a final guard even though classification
		// already filters author-signed replies.
		if signedByAuthor(reply.Signatures) {
			continue
		}
		f := ExtractReviewFields(reply.Content)
		rec := types.ReviewRecord{
			ReviewerID: reviewerID(reply.Signatures),
			Score:      f.Score,
			Confidence: f.Confidence,
			Text:       f.Text,
			Date:       FormatReplyDate(reply.TCDate, reply.CDate),
			Strengths:  f.Strengths,
			Weaknesses: f.Weaknesses,
			Questions:  f.Questions,
			Summary:    f.Summary,
		}
		if !rec.HasContent() {
			continue
		}
		reviews = append(reviews, rec)
	}

	var meta types.MetaReview
	if len(metaReplies) > 0 {
		m := ExtractMetaFields(metaReplies[0].Content)
		meta = types.MetaReview{Text: m.Text, DecisionRationale: m.DecisionRationale}
	}

	decision := types.DecisionAbsent
	for _, reply := range metaReplies {
		if d := ExtractDecision(reply.Content); d != types.DecisionAbsent {
			decision = d
			break
		}
	}
	if decision == types.DecisionAbsent && workshop {
		decision = types.DecisionWorkshop
	}

	paper := types.Paper{
		PaperID:      sub.ID,
		Year:         year,
		Title:        stringField(content, "title"),
		Authors:      stringList(content, "authors"),
		Affiliations: []string{},
		Abstract:     stringField(content, "abstract"),
		URL:          siteBase + "/forum?id=" + sub.ID,
		PDFURL:       pdfURL(stringField(content, "pdf")),
		PageMetadata: types.PageMetadata{
			Venue:    fmt.Sprintf("ICLR.cc/%d/Conference", year),
			Keywords: stringList(content, "keywords"),
			Number:   sub.Number,
		},
		OfficialReviews: reviews,
		MetaReview:      meta,
		Decision:        decision,
		CrawlTimestamp:  now().Format(replyDateFormat),
	}
	return paper, nil
}

// reviewerID returns the first signature, masking absent signers as
// Anonymous like the upstream UI does.
func reviewerID(signatures []string) string {
	if len(signatures) == 0 || signatures[0] == "" {
		return anonymousReviewer
	}
	return signatures[0]
}

// pdfURL rewrites the relative pdf path a note carries ("/pdf/abc.pdf")
// into an absolute URL. Already-absolute URLs pass through.
func pdfURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return siteBase + path
}
