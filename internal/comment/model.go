// Package comment provides the visitor comment model and its storage backends.
package comment

import "time"

// DateLayout is the ISO-8601 layout used for Comment.Date: local time,
// microsecond precision, no zone suffix.
const DateLayout = "2006-01-02T15:04:05.000000"

// Comment is a single visitor comment.
//
// ID is the length of the collection at insertion time plus one. It is
// not a durable key: removing entries out of band, or two writers racing,
// can produce duplicate or reused ids.
type Comment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	Date string `json:"date"`
}

// Clock returns the current time. Stores take one so tests can pin dates.
type Clock func() time.Time

// newComment builds the record appended after existing entries.
func newComment(existing int, name, text string, now Clock) Comment {
	return Comment{
		ID:   existing + 1,
		Name: name,
		Text: text,
		Date: now().Format(DateLayout),
	}
}
