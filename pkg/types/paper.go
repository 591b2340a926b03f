// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Decision is the acceptance conclusion extracted for a submission.
type Decision string

const (
	DecisionAccept    Decision = "accept"
	DecisionReject    Decision = "reject"
	DecisionPoster    Decision = "poster"
	DecisionOral      Decision = "oral"
	DecisionSpotlight Decision = "spotlight"

	// DecisionWorkshop is synthesized when no decision reply exists but a
	// reply invitation carried the workshop marker.
	DecisionWorkshop Decision = "workshop_paper"

	// DecisionAbsent means no decision could be determined. It is never
	// defaulted to accept; it serializes as the empty string so the record
	// shape stays stable for dataset consumers.
	DecisionAbsent Decision = ""
)

// ReviewRecord is one official review attached to a paper. All fields are
// strings because upstream scores mix numbers, "7: Good paper", and prose
// across years.
type ReviewRecord struct {
	ReviewerID string `json:"reviewer_id"`
	Score      string `json:"score"`
	Confidence string `json:"confidence"`
	Text       string `json:"text"`
	Date       string `json:"date"`
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	Questions  string `json:"questions"`
	Summary    string `json:"summary"`
}

// HasContent reports whether the review carries any substantive text.
// Reviews with no content are never materialized into a paper record.
func (r ReviewRecord) HasContent() bool {
	return r.Text != "" || r.Summary != "" || r.Strengths != "" || r.Weaknesses != ""
}

// MetaReview is the area chair's meta-review for a paper. A missing
// meta-review is represented with both fields empty, not omitted.
type MetaReview struct {
	Text              string `json:"text"`
	DecisionRationale string `json:"decision_rationale"`
}

// PageMetadata groups venue-level fields of a paper.
type PageMetadata struct {
	Venue    string   `json:"venue"`
	Keywords []string `json:"keywords"`

	// Number is the submission number; null when upstream has none.
	Number *int `json:"number"`
}

// Paper is the canonical record emitted for one submission. Field names and
// nesting are the persisted JSONL schema and must not change: downstream
// consumers parse these exact keys.
type Paper struct {
	PaperID         string         `json:"paper_id"`
	Year            int            `json:"year"`
	Title           string         `json:"title"`
	Authors         []string       `json:"authors"`
	Affiliations    []string       `json:"affiliations"`
	Abstract        string         `json:"abstract"`
	URL             string         `json:"url"`
	PDFURL          string         `json:"pdf_url"`
	PageMetadata    PageMetadata   `json:"page_metadata"`
	OfficialReviews []ReviewRecord `json:"official_reviews"`
	MetaReview      MetaReview     `json:"meta_review"`
	Decision        Decision       `json:"decision"`
	CrawlTimestamp  string         `json:"crawl_timestamp"`
}
