// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"strings"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// ReplyKind is the semantic class of one reply. Meta-reviews and decisions
// share a class: decision notes carry meta-review prose and vice versa, so
// the same reply is later asked for both a rationale and a decision label.
type ReplyKind int

const (
	KindIrrelevant ReplyKind = iota
	KindReview
	KindMetaReview
)

func (k ReplyKind) String() string {
	switch k {
	case KindReview:
		return "review"
	case KindMetaReview:
		return "meta_review"
	default:
		return "irrelevant"
	}
}

// metaReviewTerms mark a reply as meta-review/decision. Checked before the
// review terms: a "Meta_Review" invitation also contains "review".
var metaReviewTerms = []string{
	"meta_review", "metareview", "meta-review", "decision",
	"accept", "reject", "poster", "spotlight", "oral",
}

// reviewTerms mark a reply as a candidate official review.
var reviewTerms = []string{
	"official_review", "official_comment", "/review", "/comment", "public_comment",
}

// reviewExclusions veto a review match: withdrawals, desk rejects, and
// author responses share invitation vocabulary with reviews.
var reviewExclusions = []string{
	"meta_review", "metareview", "decision", "accept", "reject",
	"withdraw", "desk_reject", "author_rebuttal", "response", "authors",
}

// rebuttalPhrases flag author rebuttals mis-tagged as comments. Matched
// against the first 200 characters of the reply's free text.
var rebuttalPhrases = []string{
	"thank all reviewers", "we thank", "we appreciate",
	"we have revised", "we have updated",
}

// rebuttalTextFields are the content fields scanned for rebuttalPhrases,
// matched case-insensitively.
var rebuttalTextFields = []string{"summary", "comment", "review"}

// Classify decides the semantic kind of one reply from its invitation text,
// signatures, and (for candidate reviews) its content. The second return is
// the workshop signal: true when the invitation mentions a workshop track,
// used only to synthesize a workshop_paper decision when no explicit
// decision exists.
//
// Match order is significant: meta-review/decision before review, and the
// author-response suppression only after a reply is provisionally a review.
func Classify(reply types.Reply) (ReplyKind, bool) {
	inv := strings.ToLower(strings.Join(reply.Invitations, " "))
	workshop := strings.Contains(inv, "workshop")

	if containsAny(inv, metaReviewTerms) {
		return KindMetaReview, workshop
	}

	isReview := containsAny(inv, reviewTerms) && !containsAny(inv, reviewExclusions)

	// ICLR 2016/2017 tagged reviews as "paper123/review" style invitations
	// that predate the Official_Review vocabulary.
	if !isReview && strings.Contains(inv, "2017") {
		isReview = strings.Contains(inv, "paper") &&
			(strings.Contains(inv, "review") || strings.Contains(inv, "comment"))
	}

	if !isReview {
		return KindIrrelevant, workshop
	}

	if signedByAuthor(reply.Signatures) || looksLikeRebuttal(reply.Content) {
		return KindIrrelevant, workshop
	}
	return KindReview, workshop
}

// signedByAuthor reports whether any signer identifies as an author.
func signedByAuthor(signatures []string) bool {
	for _, s := range signatures {
		if strings.Contains(s, "Author") {
			return true
		}
	}
	return false
}

// looksLikeRebuttal checks the opening of the reply's free text for
// author-rebuttal phrasing ("we thank the reviewers...") that slips through
// invitation-based classification in comment-tagged replies.
func looksLikeRebuttal(content types.RawContent) bool {
	c := Normalize(content)
	var parts []string
	for _, field := range rebuttalTextFields {
		if s := stringFieldFold(c, field); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))
	if len(text) > 200 {
		text = text[:200]
	}
	return containsAny(text, rebuttalPhrases)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
