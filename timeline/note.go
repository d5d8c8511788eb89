package timeline

import (
	"slices"
	"time"
)

const (
	VisibilityPublic    = "public"
	VisibilityHome      = "home"
	VisibilityFollowers = "followers"
	VisibilitySpecified = "specified"
)

// hashtags which qualify a note for the kigurumi timeline
var kigurumiTags = []string{"kigurumi", "着ぐるみ"}

// Note is the timeline's read model of a note. IDs are lexicographically
// sortable (newer notes have greater ids), which the paging logic relies on.
type Note struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index" json:"userId"`
	Visibility string    `json:"visibility"`
	FileIDs    []string  `gorm:"serializer:json" json:"fileIds"`
	Tags       []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Eligible reports whether a note belongs on the kigurumi timeline: publicly
// visible, at least one attached file, and tagged with one of the kigurumi
// hashtags.
func Eligible(note *Note) bool {
	if note.Visibility != VisibilityPublic {
		return false
	}
	if len(note.FileIDs) == 0 {
		return false
	}
	for _, tag := range note.Tags {
		if slices.Contains(kigurumiTags, tag) {
			return true
		}
	}
	return false
}
