package comment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the whole collection in a single JSON file and rewrites
// it on every change.
//
// The mutex only serialises appends made through this value. Another
// process writing the same file can still lose updates.
type FileStore struct {
	path string
	now  Clock
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// WithClock overrides the clock used to stamp new comments.
func (s *FileStore) WithClock(now Clock) *FileStore {
	s.now = now
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Init writes an empty array if the file does not exist.
func (s *FileStore) Init(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", s.path, err)
	}
	return s.Save(ctx, []Comment{})
}

// Load reads the file. A missing file is an empty collection; a file
// that does not decode is an error.
func (s *FileStore) Load(_ context.Context) ([]Comment, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading comments: %w", err)
	}

	comments := []Comment{}
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// Save writes comments to a temp file next to the target and renames it
// into place, so readers never see a partial file.
func (s *FileStore) Save(_ context.Context, comments []Comment) error {
	if comments == nil {
		comments = []Comment{}
	}

	data, err := encode(comments)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing comments: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

// Append loads the file, adds one comment and writes the file back.
func (s *FileStore) Append(ctx context.Context, name, text string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := s.Load(ctx)
	if err != nil {
		return Comment{}, err
	}

	c := newComment(len(comments), name, text, s.now)
	comments = append(comments, c)

	if err := s.Save(ctx, comments); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// encode renders comments as indented JSON with HTML escaping off, so
// non-ASCII text and characters like < and & are written literally.
func encode(comments []Comment) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(comments); err != nil {
		return nil, fmt.Errorf("encoding comments: %w", err)
	}
	return buf.Bytes(), nil
}
