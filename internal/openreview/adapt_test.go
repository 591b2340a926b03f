// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openreview

import (
	"reflect"
	"testing"
)

func TestInvitationList(t *testing.T) {
	tests := []struct {
		name string
		note apiNote
		want []string
	}{
		{
			name: "v1 singular invitation",
			note: apiNote{Invitation: "ICLR.cc/2020/Conference/-/Blind_Submission"},
			want: []string{"ICLR.cc/2020/Conference/-/Blind_Submission"},
		},
		{
			name: "v2 string list",
			note: apiNote{Invitations: []any{
				"ICLR.cc/2024/Conference/-/Submission",
				"ICLR.cc/2024/Conference/-/Edit",
			}},
			want: []string{
				"ICLR.cc/2024/Conference/-/Submission",
				"ICLR.cc/2024/Conference/-/Edit",
			},
		},
		{
			name: "structured entry prefers id",
			note: apiNote{Invitations: []any{
				map[string]any{"id": "ICLR.cc/2024/Conference/-/Official_Review", "name": "Review"},
			}},
			want: []string{"ICLR.cc/2024/Conference/-/Official_Review"},
		},
		{
			name: "structured entry falls back to name",
			note: apiNote{Invitations: []any{
				map[string]any{"name": "Official_Review"},
			}},
			want: []string{"Official_Review"},
		},
		{
			name: "singular wins over list",
			note: apiNote{
				Invitation:  "v1-style",
				Invitations: []any{"v2-style"},
			},
			want: []string{"v1-style"},
		},
		{
			name: "empty note",
			note: apiNote{},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.note.invitationList()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("invitationList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToSubmission(t *testing.T) {
	n := apiNote{
		ID:     "sub1",
		Number: intPtr(7),
		Content: map[string]any{
			"title": map[string]any{"value": "A Paper"},
		},
		Details: &noteDetails{
			Replies: []apiNote{{
				ID:         "r1",
				Invitation: "ICLR.cc/2020/Conference/Paper7/-/Official_Review",
				Signatures: []string{"AnonReviewer1"},
				TCDate:     1234,
			}},
		},
	}

	sub := n.toSubmission()
	if sub.ID != "sub1" {
		t.Errorf("id = %q", sub.ID)
	}
	if sub.Number == nil || *sub.Number != 7 {
		t.Errorf("number = %v, want 7", sub.Number)
	}
	if len(sub.Replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(sub.Replies))
	}
	r := sub.Replies[0]
	if len(r.Invitations) != 1 || r.Invitations[0] != "ICLR.cc/2020/Conference/Paper7/-/Official_Review" {
		t.Errorf("reply invitations = %v", r.Invitations)
	}
	if r.TCDate != 1234 {
		t.Errorf("tcdate = %d", r.TCDate)
	}
}

func TestToSubmissionDirectRepliesFallback(t *testing.T) {
	n := apiNote{
		ID: "sub2",
		Details: &noteDetails{
			DirectReplies: []apiNote{{ID: "d1", Invitation: "x/-/Official_Review"}},
		},
	}
	sub := n.toSubmission()
	if len(sub.Replies) != 1 {
		t.Errorf("replies = %d, want 1 from directReplies", len(sub.Replies))
	}
}

func TestToSubmissionNoDetails(t *testing.T) {
	sub := apiNote{ID: "sub3"}.toSubmission()
	if len(sub.Replies) != 0 {
		t.Errorf("replies = %d, want 0", len(sub.Replies))
	}
}

func intPtr(n int) *int { return &n }
