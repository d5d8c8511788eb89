package engine

// Activity is the closed set of activity shapes the engine knows how to
// score. Adding a new kind requires a new arm in the shape scorer; there is
// deliberately no fallthrough score for unknown kinds.
type Activity interface {
	ActivityKind() string
}

// CreateActivity is a new note being posted.
type CreateActivity struct {
	MentionedUsersCount int
	Text                *string
}

func (CreateActivity) ActivityKind() string { return "create" }

// LikeActivity is a reaction to an existing note.
type LikeActivity struct {
	// renote/boost count of the note being reacted to, as a popularity proxy
	TargetRenoteCount int64
}

func (LikeActivity) ActivityKind() string { return "like" }
