package entity

import "testing"

func voteOf(v VoteType) *VoteType { return &v }

func TestResolveVote(t *testing.T) {
	tests := []struct {
		name      string
		current   *VoteType
		requested VoteType
		action    VoteAction
		next      *VoteType
		up, down  int
	}{
		{"first upvote", nil, VoteUp, VoteInserted, voteOf(VoteUp), 1, 0},
		{"first downvote", nil, VoteDown, VoteInserted, voteOf(VoteDown), 0, 1},
		{"repeat upvote removes", voteOf(VoteUp), VoteUp, VoteRemoved, nil, -1, 0},
		{"repeat downvote removes", voteOf(VoteDown), VoteDown, VoteRemoved, nil, 0, -1},
		{"up to down switches", voteOf(VoteUp), VoteDown, VoteChanged, voteOf(VoteDown), -1, 1},
		{"down to up switches", voteOf(VoteDown), VoteUp, VoteChanged, voteOf(VoteUp), 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVote(tt.current, tt.requested)
			if got.Action != tt.action {
				t.Fatalf("action = %s, want %s", got.Action, tt.action)
			}
			if got.UpvoteDelta != tt.up || got.DownvoteDelta != tt.down {
				t.Fatalf("deltas = (%d,%d), want (%d,%d)", got.UpvoteDelta, got.DownvoteDelta, tt.up, tt.down)
			}
			switch {
			case tt.next == nil && got.Next != nil:
				t.Fatalf("next = %s, want nil", *got.Next)
			case tt.next != nil && (got.Next == nil || *got.Next != *tt.next):
				t.Fatalf("next = %v, want %s", got.Next, *tt.next)
			}
		})
	}
}

func TestResolveVoteTwiceIsNeutral(t *testing.T) {
	first := ResolveVote(nil, VoteUp)
	second := ResolveVote(first.Next, VoteUp)

	if second.Next != nil {
		t.Fatalf("expected vote row to be removed, got %s", *second.Next)
	}
	if up := first.UpvoteDelta + second.UpvoteDelta; up != 0 {
		t.Fatalf("net upvotes = %d, want 0", up)
	}
}
