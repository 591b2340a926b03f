// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawContent is the loosely-structured content block of a note as the API
// returns it. Values are either raw scalars/lists (legacy shape) or
// {"value": ...} wrapper objects (valued-field shape). The process package
// owns unwrapping; nothing else should reach into it.
type RawContent map[string]any

// Reply is one threaded response attached to a submission, normalized at
// the fetcher boundary: the v1 singular `invitation` string and the v2
// `invitations` list both land in Invitations, so classification never
// branches on wire representation.
type Reply struct {
	Invitations []string
	Signatures  []string

	// TCDate is the true creation date and CDate the creation date, both
	// millisecond Unix timestamps. TCDate wins when both are set; zero
	// means the field was absent.
	TCDate int64
	CDate  int64

	Content RawContent
}

// Submission is one paper-under-review fetched from upstream, root of a
// reply thread. Consumed once by the assembler, then discarded.
type Submission struct {
	ID      string
	Number  *int
	Content RawContent
	Replies []Reply
}
