// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"strings"
	"time"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// Priority chains of historical field names, first non-empty wins. These
// are the accumulated vocabulary of ten years of review forms; extend the
// slices when a new year renames a field.
var (
	scoreChain = []string{"rating", "recommendation", "score"}

	textChain = []string{
		"review", "comment", "text", "main_review",
		"summary_of_contributions", "summary_of_the_review", "summary_of_the_paper",
	}

	questionsChain = []string{
		"questions",
		"clarity, quality, novelty and reproducibility",
		"additional_comments", "comments",
	}

	summaryChain = []string{
		"summary", "summary_of_the_paper", "summary_of_the_review", "brief_summary",
	}

	// combinedStrengthsKeys hold strengths and weaknesses as one blob; the
	// blob lands in strengths unsplit and weaknesses stays empty.
	combinedStrengthsKeys = []string{"strength_and_weaknesses", "strengths_and_weaknesses"}

	metaTextChain = []string{
		"metareview", "meta_review", "comment", "decision_comment",
		"justification", "acceptance_decision",
		"program_chair_comment", "area_chair_comment",
	}

	rationaleChain = []string{"recommendation", "decision"}

	// synthExtraFields are appended, when present, to a synthesized review
	// text after the four primary sections.
	synthExtraFields = []string{
		"detailed_comments", "general_comments", "technical_quality",
		"clarity", "originality", "significance", "pros", "cons",
	}
)

// The 2021 AC form split the meta-review across a combined prose field and
// two score-justification fields; these reassemble it.
var metaSynthFields = []struct{ key, label string }{
	{"metareview: summary, strengths and weaknesses", "Metareview"},
	{"justification_for_why_not_higher_score", "Why Not Higher Score"},
	{"justification_for_why_not_lower_score", "Why Not Lower Score"},
}

// minMetaTextLen is the length under which a chain-extracted meta-review is
// considered degenerate (often just "Accept") and the era-specific
// synthesis is attempted as a richer replacement.
const minMetaTextLen = 50

// ReviewFields is the extracted content of one official review.
type ReviewFields struct {
	Score      string
	Confidence string
	Text       string
	Strengths  string
	Weaknesses string
	Questions  string
	Summary    string
}

// MetaFields is the extracted content of one meta-review/decision reply.
type MetaFields struct {
	Text              string
	DecisionRationale string
}

// ExtractReviewFields pulls the semantic review fields out of a content
// block of either schema shape. Missing fields read as empty; the function
// never fails and is idempotent.
func ExtractReviewFields(content types.RawContent) ReviewFields {
	c := Normalize(content)

	f := ReviewFields{
		Score:      firstString(c, scoreChain...),
		Confidence: stringField(c, "confidence"),
		Text:       firstString(c, textChain...),
		Questions:  firstString(c, questionsChain...),
		Summary:    firstString(c, summaryChain...),
	}

	if combined := firstString(c, combinedStrengthsKeys...); combined != "" {
		f.Strengths = combined
	} else {
		f.Strengths = stringField(c, "strengths")
		f.Weaknesses = stringField(c, "weaknesses")
	}

	if f.Text == "" {
		f.Text = synthesizeReviewText(c, f)
	}
	return f
}

// synthesizeReviewText rebuilds a review body for years whose forms had no
// single free-text field, concatenating labeled sections in a fixed order.
func synthesizeReviewText(c types.RawContent, f ReviewFields) string {
	var blocks []string
	appendBlock := func(name, text string) {
		if text != "" {
			blocks = append(blocks, labelFor(name)+text)
		}
	}

	appendBlock("summary", f.Summary)
	appendBlock("strengths", f.Strengths)
	appendBlock("weaknesses", f.Weaknesses)
	appendBlock("questions", f.Questions)
	for _, key := range synthExtraFields {
		appendBlock(key, stringField(c, key))
	}
	return strings.Join(blocks, "\n\n")
}

// labelFor renders a field name as a section label: underscores to spaces,
// title-cased, bold, colon, newline.
func labelFor(name string) string {
	return "**" + titleWords(strings.ReplaceAll(name, "_", " ")) + ":**\n"
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractMetaFields pulls the meta-review text and decision rationale out
// of a content block of either schema shape.
func ExtractMetaFields(content types.RawContent) MetaFields {
	c := Normalize(content)

	text := firstString(c, metaTextChain...)
	if len(text) < minMetaTextLen {
		if synth := synthesizeMetaText(c); synth != "" {
			text = synth
		}
	}

	return MetaFields{
		Text:              text,
		DecisionRationale: firstString(c, rationaleChain...),
	}
}

func synthesizeMetaText(c types.RawContent) string {
	var blocks []string
	for _, f := range metaSynthFields {
		if v := stringField(c, f.key); v != "" {
			blocks = append(blocks, "**"+f.label+":**\n"+v)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// ExtractDecision reads the decision field and maps its free text onto a
// canonical label by substring, in priority order. "Accept (Poster)" is an
// accept. Returns DecisionAbsent when the field is missing or matches
// nothing; the caller decides about the workshop fallback.
func ExtractDecision(content types.RawContent) types.Decision {
	c := Normalize(content)
	d := strings.ToLower(stringField(c, "decision"))
	if d == "" {
		return types.DecisionAbsent
	}
	switch {
	case strings.Contains(d, "accept"):
		return types.DecisionAccept
	case strings.Contains(d, "reject"):
		return types.DecisionReject
	case strings.Contains(d, "poster"):
		return types.DecisionPoster
	case strings.Contains(d, "oral"):
		return types.DecisionOral
	case strings.Contains(d, "spotlight"):
		return types.DecisionSpotlight
	}
	return types.DecisionAbsent
}

// replyDateFormat matches the source dataset's second-precision local-time
// ISO-8601 strings.
const replyDateFormat = "2006-01-02T15:04:05"

// FormatReplyDate converts a reply's creation timestamps (millisecond Unix,
// true-creation preferred) to an ISO-8601 local-time string. Returns ""
// when neither timestamp is present.
func FormatReplyDate(tcdate, cdate int64) string {
	ms := tcdate
	if ms == 0 {
		ms = cdate
	}
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Format(replyDateFormat)
}
