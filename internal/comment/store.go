package comment

import "context"

// Store persists the ordered comment collection.
type Store interface {
	// Init creates the empty backing storage if it does not exist yet.
	Init(ctx context.Context) error
	// Load returns every comment in insertion order. An absent backing
	// store yields an empty, non-nil slice.
	Load(ctx context.Context) ([]Comment, error)
	// Save replaces the stored collection with comments.
	Save(ctx context.Context, comments []Comment) error
	// Append adds a comment with id len+1 and the current timestamp.
	Append(ctx context.Context, name, text string) (Comment, error)
}
