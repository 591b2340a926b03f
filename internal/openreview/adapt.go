// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openreview

import (
	"fmt"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// apiNote is the wire shape of a note from either API version. The v1 API
// sends a singular `invitation` string and direct content values; the v2
// API sends an `invitations` list (whose entries are occasionally objects,
// not strings) and valued-field content. Everything downstream of this file
// sees only the normalized types.Submission / types.Reply.
type apiNote struct {
	ID          string         `json:"id"`
	Forum       string         `json:"forum"`
	Number      *int           `json:"number"`
	Invitation  string         `json:"invitation"`
	Invitations []any          `json:"invitations"`
	Signatures  []string       `json:"signatures"`
	TCDate      int64          `json:"tcdate"`
	CDate       int64          `json:"cdate"`
	Content     map[string]any `json:"content"`
	Details     *noteDetails   `json:"details"`
}

type noteDetails struct {
	Replies       []apiNote `json:"replies"`
	DirectReplies []apiNote `json:"directReplies"`
}

type notesResponse struct {
	Notes []apiNote `json:"notes"`
	Count int       `json:"count"`
}

// invitationList flattens the two invitation encodings into a string list.
// Structured entries prefer their "id" sub-field, then "name", then a plain
// rendering.
func (n apiNote) invitationList() []string {
	if n.Invitation != "" {
		return []string{n.Invitation}
	}
	out := make([]string, 0, len(n.Invitations))
	for _, inv := range n.Invitations {
		switch t := inv.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			if id, ok := t["id"].(string); ok && id != "" {
				out = append(out, id)
			} else if name, ok := t["name"].(string); ok && name != "" {
				out = append(out, name)
			} else {
				out = append(out, fmt.Sprintf("%v", t))
			}
		default:
			out = append(out, fmt.Sprintf("%v", t))
		}
	}
	return out
}

func (n apiNote) toReply() types.Reply {
	return types.Reply{
		Invitations: n.invitationList(),
		Signatures:  n.Signatures,
		TCDate:      n.TCDate,
		CDate:       n.CDate,
		Content:     types.RawContent(n.Content),
	}
}

// toSubmission converts a fetched note and its attached replies. Replies
// live under details.replies or details.directReplies, checked in that
// order.
func (n apiNote) toSubmission() types.Submission {
	sub := types.Submission{
		ID:      n.ID,
		Number:  n.Number,
		Content: types.RawContent(n.Content),
	}
	if n.Details == nil {
		return sub
	}
	raw := n.Details.Replies
	if len(raw) == 0 {
		raw = n.Details.DirectReplies
	}
	for _, r := range raw {
		sub.Replies = append(sub.Replies, r.toReply())
	}
	return sub
}
