package entity

import "github.com/google/uuid"

type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

type VoteAction string

const (
	VoteInserted VoteAction = "inserted"
	VoteRemoved  VoteAction = "removed"
	VoteChanged  VoteAction = "changed"
)

// VoteTransition describes how one toggle changes the vote row and the
// post counters.
type VoteTransition struct {
	Action        VoteAction
	Next          *VoteType // nil when the vote row is removed
	UpvoteDelta   int
	DownvoteDelta int
}

// ResolveVote applies the toggle rule: no vote inserts, the same direction
// removes, the other direction switches.
func ResolveVote(current *VoteType, requested VoteType) VoteTransition {
	delta := func(v VoteType, n int) (up, down int) {
		if v == VoteUp {
			return n, 0
		}
		return 0, n
	}

	switch {
	case current == nil:
		up, down := delta(requested, 1)
		next := requested
		return VoteTransition{Action: VoteInserted, Next: &next, UpvoteDelta: up, DownvoteDelta: down}

	case *current == requested:
		up, down := delta(requested, -1)
		return VoteTransition{Action: VoteRemoved, UpvoteDelta: up, DownvoteDelta: down}

	default:
		oldUp, oldDown := delta(*current, -1)
		newUp, newDown := delta(requested, 1)
		next := requested
		return VoteTransition{
			Action:        VoteChanged,
			Next:          &next,
			UpvoteDelta:   oldUp + newUp,
			DownvoteDelta: oldDown + newDown,
		}
	}
}

// VoteResult is what a vote leaves behind on the post.
type VoteResult struct {
	PostID    uuid.UUID
	Upvotes   int
	Downvotes int
	UserVote  *VoteType
	Action    VoteAction
}
